package loaders

import (
	"encoding/csv"
	"io"

	"srm-backend/domain/core/valueobjects"
)

// DecodeCSV reads a comma separated table with the same layout as a sheet
func DecodeCSV(r io.Reader) (*valueobjects.BinaryMatrix, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table, err := reader.ReadAll()
	if err != nil {
		return nil, valueobjects.NewInvalidMatrixError(0, 0, "malformed csv: "+err.Error())
	}
	return fromTable(table, false)
}
