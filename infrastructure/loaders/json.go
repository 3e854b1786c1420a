package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"srm-backend/domain/core/valueobjects"
)

// matrixEnvelope is the labelled JSON form: {"users": [...], "rows": [[...]]}
type matrixEnvelope struct {
	Users []string        `json:"users"`
	Rows  [][]json.Number `json:"rows"`
}

// DecodeJSON reads one of three JSON shapes:
//   - rows of 0/1 values: [[0,1],[1,1]]
//   - an envelope with user labels: {"users": ["a","b"], "rows": [[0,1]]}
//   - spreadsheet records: [{"index": 1, "a": 0, "b": 1}], first key dropped
func DecodeJSON(r io.Reader) (*valueobjects.BinaryMatrix, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, valueobjects.NewInvalidMatrixError(0, 0, "matrix payload is empty")
	}

	if data[0] == '{' {
		var env matrixEnvelope
		if err := strictUnmarshal(data, &env); err != nil {
			return nil, valueobjects.NewInvalidMatrixError(0, 0, "malformed matrix envelope: "+err.Error())
		}
		rows, err := numbersToRows(env.Rows)
		if err != nil {
			return nil, err
		}
		return valueobjects.NewBinaryMatrix(rows, env.Users)
	}

	if isRecordArray(data) {
		table, err := recordsToTable(data)
		if err != nil {
			return nil, valueobjects.NewInvalidMatrixError(0, 0, "malformed matrix records: "+err.Error())
		}
		return fromTable(table, false)
	}

	var raw [][]json.Number
	if err := strictUnmarshal(data, &raw); err != nil {
		return nil, valueobjects.NewInvalidMatrixError(0, 0, "malformed matrix rows: "+err.Error())
	}
	rows, err := numbersToRows(raw)
	if err != nil {
		return nil, err
	}
	return valueobjects.NewBinaryMatrix(rows, nil)
}

func strictUnmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func numbersToRows(raw [][]json.Number) ([][]int, error) {
	rows := make([][]int, len(raw))
	for r, cells := range raw {
		rows[r] = make([]int, len(cells))
		for c, n := range cells {
			v, err := parseCell(n.String())
			if err != nil || n.String() == "" {
				return nil, valueobjects.NewInvalidMatrixError(r+1, c+1, fmt.Sprintf("cell value %q is not an integer", n.String()))
			}
			rows[r][c] = v
		}
	}
	return rows, nil
}

func isRecordArray(data []byte) bool {
	rest := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("[")))
	return len(rest) > 0 && rest[0] == '{'
}

// recordsToTable walks the token stream so key order survives; a map would lose it
func recordsToTable(data []byte) ([][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var header []string
	table := [][]string{nil}
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		var keys, values []string
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("expected object key, got %v", tok)
			}
			tok, err = dec.Token()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			values = append(values, tokenString(tok))
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}

		if header == nil {
			header = keys
		} else if !sameKeys(header, keys) {
			return nil, fmt.Errorf("record %d has different columns than record 1", len(table))
		}
		table = append(table, values)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	table[0] = header
	return table, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func tokenString(tok json.Token) string {
	switch v := tok.(type) {
	case json.Number:
		return v.String()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
