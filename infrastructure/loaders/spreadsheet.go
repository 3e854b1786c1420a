package loaders

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"srm-backend/domain/core/valueobjects"
)

// DecodeSpreadsheet reads the first sheet of an xlsx workbook. The layout
// matches a sheet exported from a dataframe: a header row of user labels
// behind an index column, then one row per item number.
func DecodeSpreadsheet(r io.Reader) (*valueobjects.BinaryMatrix, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, valueobjects.NewInvalidMatrixError(0, 0, "unreadable workbook: "+err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return valueobjects.NewBinaryMatrix(nil, nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	// GetRows trims trailing empty cells, so short rows are padded.
	return fromTable(rows, true)
}
