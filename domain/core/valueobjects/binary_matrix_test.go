package valueobjects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBinaryMatrix(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]int
		users   []string
		wantErr bool
		row     int
		column  int
	}{
		{
			name: "valid matrix",
			rows: [][]int{{1, 0, 1}, {0, 1, 1}},
		},
		{
			name:  "valid matrix with labels",
			rows:  [][]int{{1, 0}, {0, 1}},
			users: []string{"alice", "bob"},
		},
		{
			name: "empty matrix",
			rows: [][]int{},
		},
		{
			name:    "ragged rows",
			rows:    [][]int{{1, 0, 1, 1}, {0, 1, 1, 0}, {1, 1, 0}},
			wantErr: true,
			row:     3,
		},
		{
			name:    "non binary cell",
			rows:    [][]int{{1, 0}, {2, 1}},
			wantErr: true,
			row:     2,
			column:  1,
		},
		{
			name:    "negative cell",
			rows:    [][]int{{1, -1}},
			wantErr: true,
			row:     1,
			column:  2,
		},
		{
			name:    "label count mismatch",
			rows:    [][]int{{1, 0}},
			users:   []string{"alice"},
			wantErr: true,
		},
		{
			name:    "duplicate labels",
			rows:    [][]int{{1, 0}},
			users:   []string{"alice", "alice"},
			wantErr: true,
			column:  2,
		},
		{
			name:    "empty label",
			rows:    [][]int{{1, 0}},
			users:   []string{"alice", ""},
			wantErr: true,
			column:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewBinaryMatrix(tt.rows, tt.users)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidMatrix))

				var invalid *InvalidMatrixError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, tt.row, invalid.Row)
				assert.Equal(t, tt.column, invalid.Column)
				assert.Nil(t, m)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.rows, m.Rows())
		})
	}
}

func TestBinaryMatrix_DefaultUserLabels(t *testing.T) {
	m, err := NewBinaryMatrix([][]int{{1, 0, 1}}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, m.Users())
	assert.Equal(t, 1, m.ItemCount())
	assert.Equal(t, 3, m.UserCount())
}

func TestBinaryMatrix_IsEmpty(t *testing.T) {
	noRows, err := NewBinaryMatrix(nil, nil)
	require.NoError(t, err)
	assert.True(t, noRows.IsEmpty())

	noUsers, err := NewBinaryMatrix([][]int{{}, {}}, nil)
	require.NoError(t, err)
	assert.True(t, noUsers.IsEmpty())
	assert.Equal(t, 2, noUsers.ItemCount())

	m, err := NewBinaryMatrix([][]int{{0}}, nil)
	require.NoError(t, err)
	assert.False(t, m.IsEmpty())
}

func TestBinaryMatrix_Collection(t *testing.T) {
	m, err := NewBinaryMatrix([][]int{
		{1, 0},
		{1, 1},
		{0, 1},
		{1, 1},
	}, []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 4}, m.Collection(0).Values())
	assert.Equal(t, []int{2, 3, 4}, m.Collection(1).Values())
	assert.True(t, m.Collection(5).IsEmpty())

	assert.True(t, m.Holds(0, 1))
	assert.False(t, m.Holds(0, 3))
	assert.False(t, m.Holds(0, 0))
	assert.False(t, m.Holds(0, 5))
}

func TestBinaryMatrix_UsersIsACopy(t *testing.T) {
	m, err := NewBinaryMatrix([][]int{{1}}, []string{"a"})
	require.NoError(t, err)

	users := m.Users()
	users[0] = "mutated"
	assert.Equal(t, []string{"a"}, m.Users())
}

func TestInvalidMatrixError_Error(t *testing.T) {
	assert.Equal(t, "invalid matrix at row 2, column 1: bad", NewInvalidMatrixError(2, 1, "bad").Error())
	assert.Equal(t, "invalid matrix at row 3: bad", NewInvalidMatrixError(3, 0, "bad").Error())
	assert.Equal(t, "invalid matrix: bad", NewInvalidMatrixError(0, 0, "bad").Error())
}

func TestInvalidMatrixError_CodeAndDetails(t *testing.T) {
	err := NewInvalidMatrixError(4, 0, "row has 3 cells, expected 4")

	assert.Equal(t, "INVALID_MATRIX", err.Code())
	assert.Equal(t, map[string]interface{}{
		"row":    4,
		"reason": "row has 3 cells, expected 4",
	}, err.Details())
	assert.Equal(t, map[string]interface{}{
		"row": 2, "column": 3, "reason": "bad",
	}, NewInvalidMatrixError(2, 3, "bad").Details())
}
