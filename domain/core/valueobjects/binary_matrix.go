package valueobjects

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidMatrix is matched by every InvalidMatrixError via errors.Is
var ErrInvalidMatrix = errors.New("invalid matrix")

// InvalidMatrixError reports a malformed membership matrix.
// Row and Column are 1-based; zero means the error is not tied to a cell.
type InvalidMatrixError struct {
	Row    int
	Column int
	Reason string
}

// NewInvalidMatrixError creates a new InvalidMatrixError
func NewInvalidMatrixError(row, column int, reason string) *InvalidMatrixError {
	return &InvalidMatrixError{Row: row, Column: column, Reason: reason}
}

// Error implements the error interface
func (e *InvalidMatrixError) Error() string {
	switch {
	case e.Row > 0 && e.Column > 0:
		return fmt.Sprintf("invalid matrix at row %d, column %d: %s", e.Row, e.Column, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("invalid matrix at row %d: %s", e.Row, e.Reason)
	default:
		return "invalid matrix: " + e.Reason
	}
}

// Is lets errors.Is(err, ErrInvalidMatrix) match
func (e *InvalidMatrixError) Is(target error) bool {
	return target == ErrInvalidMatrix
}

// Code is the stable error code reported to callers
func (e *InvalidMatrixError) Code() string {
	return "INVALID_MATRIX"
}

// Details lists the reason and, when known, the offending cell
func (e *InvalidMatrixError) Details() map[string]interface{} {
	details := map[string]interface{}{"reason": e.Reason}
	if e.Row > 0 {
		details["row"] = e.Row
	}
	if e.Column > 0 {
		details["column"] = e.Column
	}
	return details
}

// BinaryMatrix is the validated item × user membership table.
// Row r (1-based) is item number r, column c is user c.
// Value objects are immutable once constructed.
type BinaryMatrix struct {
	cells [][]bool
	users []string
}

// NewBinaryMatrix validates rows and builds a BinaryMatrix.
// When users is nil, users are labelled by their 1-based column index.
func NewBinaryMatrix(rows [][]int, users []string) (*BinaryMatrix, error) {
	width := len(users)
	if len(rows) > 0 {
		width = len(rows[0])
	}

	cells := make([][]bool, len(rows))
	for r, row := range rows {
		if len(row) != width {
			return nil, NewInvalidMatrixError(r+1, 0,
				fmt.Sprintf("row has %d cells, expected %d", len(row), width))
		}
		cells[r] = make([]bool, width)
		for c, v := range row {
			switch v {
			case 0:
			case 1:
				cells[r][c] = true
			default:
				return nil, NewInvalidMatrixError(r+1, c+1,
					fmt.Sprintf("cell value %d is not 0 or 1", v))
			}
		}
	}

	labels, err := userLabels(users, width)
	if err != nil {
		return nil, err
	}

	return &BinaryMatrix{cells: cells, users: labels}, nil
}

func userLabels(users []string, width int) ([]string, error) {
	if users == nil {
		labels := make([]string, width)
		for c := range labels {
			labels[c] = strconv.Itoa(c + 1)
		}
		return labels, nil
	}

	if len(users) != width {
		return nil, NewInvalidMatrixError(0, 0,
			fmt.Sprintf("got %d user labels for %d columns", len(users), width))
	}

	seen := make(map[string]struct{}, len(users))
	labels := make([]string, len(users))
	for c, user := range users {
		if user == "" {
			return nil, NewInvalidMatrixError(0, c+1, "user label is empty")
		}
		if _, dup := seen[user]; dup {
			return nil, NewInvalidMatrixError(0, c+1, fmt.Sprintf("duplicate user label %q", user))
		}
		seen[user] = struct{}{}
		labels[c] = user
	}
	return labels, nil
}

// ItemCount returns the number of rows (item numbers)
func (m *BinaryMatrix) ItemCount() int {
	return len(m.cells)
}

// UserCount returns the number of columns (users)
func (m *BinaryMatrix) UserCount() int {
	return len(m.users)
}

// IsEmpty reports whether the matrix has no items or no users
func (m *BinaryMatrix) IsEmpty() bool {
	return m.ItemCount() == 0 || m.UserCount() == 0
}

// Users returns the user identifiers in column order
func (m *BinaryMatrix) Users() []string {
	users := make([]string, len(m.users))
	copy(users, m.users)
	return users
}

// Holds reports whether the user in column (0-based) holds the item number (1-based)
func (m *BinaryMatrix) Holds(column, number int) bool {
	if number < 1 || number > len(m.cells) || column < 0 || column >= len(m.users) {
		return false
	}
	return m.cells[number-1][column]
}

// Collection returns the item numbers held by the user in column (0-based)
func (m *BinaryMatrix) Collection(column int) NumberSet {
	numbers := make([]int, 0)
	for r := range m.cells {
		if m.Holds(column, r+1) {
			numbers = append(numbers, r+1)
		}
	}
	return NumberSet{values: numbers}
}

// Rows returns the matrix as 0/1 integer rows
func (m *BinaryMatrix) Rows() [][]int {
	rows := make([][]int, len(m.cells))
	for r, row := range m.cells {
		rows[r] = make([]int, len(row))
		for c, held := range row {
			if held {
				rows[r][c] = 1
			}
		}
	}
	return rows
}
