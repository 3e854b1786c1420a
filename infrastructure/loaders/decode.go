// Package loaders decodes membership matrices from JSON, spreadsheet and CSV
// payloads and fetches them from local files or remote URLs.
package loaders

import (
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"

	"srm-backend/domain/core/valueobjects"
)

// Format names a matrix encoding
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a configured format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported matrix format %q", s)
	}
}

// DetectFormat picks a format from a file name or URL path, then a content type.
// JSON is assumed when neither is conclusive.
func DetectFormat(name, contentType string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "spreadsheetml"), strings.Contains(ct, "application/vnd.ms-excel"):
		return FormatXLSX
	case strings.Contains(ct, "text/csv"):
		return FormatCSV
	default:
		return FormatJSON
	}
}

// Decode reads a matrix in the given format. FormatAuto falls back to JSON.
func Decode(r io.Reader, format Format) (*valueobjects.BinaryMatrix, error) {
	switch format {
	case FormatXLSX:
		return DecodeSpreadsheet(r)
	case FormatCSV:
		return DecodeCSV(r)
	case FormatJSON, FormatAuto, "":
		return DecodeJSON(r)
	default:
		return nil, fmt.Errorf("unsupported matrix format %q", format)
	}
}

// fromTable converts a header-bearing table into a matrix. The first row holds
// user labels after an index-column label; the first cell of every other row
// is the item label and is dropped. With padShort, missing trailing cells
// read as 0; otherwise a short row is ragged.
func fromTable(table [][]string, padShort bool) (*valueobjects.BinaryMatrix, error) {
	if len(table) == 0 {
		return valueobjects.NewBinaryMatrix(nil, nil)
	}

	header := table[0]
	var users []string
	if len(header) > 1 {
		users = make([]string, len(header)-1)
		for c, label := range header[1:] {
			label = strings.TrimSpace(label)
			if label == "" {
				label = strconv.Itoa(c + 1)
			}
			users[c] = label
		}
	}

	rows := make([][]int, 0, len(table)-1)
	for r, record := range table[1:] {
		item := r + 1
		var cells []string
		if len(record) > 1 {
			cells = record[1:]
		}
		if len(cells) < len(users) && !padShort {
			return nil, valueobjects.NewInvalidMatrixError(item, 0,
				fmt.Sprintf("row has %d cells, expected %d", len(cells), len(users)))
		}
		if len(cells) > len(users) {
			if extra := strings.Join(cells[len(users):], ""); strings.TrimSpace(extra) != "" {
				return nil, valueobjects.NewInvalidMatrixError(item, 0,
					fmt.Sprintf("row has %d cells, expected %d", len(cells), len(users)))
			}
			cells = cells[:len(users)]
		}

		row := make([]int, len(users))
		for c, raw := range cells {
			v, err := parseCell(raw)
			if err != nil {
				return nil, valueobjects.NewInvalidMatrixError(item, c+1, err.Error())
			}
			row[c] = v
		}
		rows = append(rows, row)
	}

	if users == nil {
		users = []string{}
	}
	return valueobjects.NewBinaryMatrix(rows, users)
}

// parseCell accepts integral numbers; blank cells read as 0
func parseCell(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("cell value %q is not a number", raw)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("cell value %q is not an integer", raw)
	}
	return int(f), nil
}
