package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNumberSet_SortsNumerically(t *testing.T) {
	s := NewNumberSet(10, 2, 9, 2, 100)

	assert.Equal(t, []int{2, 9, 10, 100}, s.Values())
	assert.Equal(t, "2,9,10,100", s.Key())
	assert.Equal(t, 100, s.Max())
}

func TestNumberSet_Intersect(t *testing.T) {
	tests := []struct {
		name string
		a, b NumberSet
		want []int
	}{
		{"overlap", NewNumberSet(1, 2, 3), NewNumberSet(2, 3, 4), []int{2, 3}},
		{"disjoint", NewNumberSet(1, 2), NewNumberSet(3, 4), []int{}},
		{"subset", NewNumberSet(1, 2), NewNumberSet(1, 2, 3), []int{1, 2}},
		{"empty", NewNumberSet(), NewNumberSet(1), []int{}},
		{"double digits", NewNumberSet(9, 10, 11), NewNumberSet(10, 11, 12), []int{10, 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			assert.Equal(t, tt.want, got.Values())
			assert.Equal(t, len(tt.want), tt.a.IntersectionSize(tt.b))
			assert.Equal(t, len(tt.want) > 0, tt.a.ContainsAny(tt.b))
			assert.True(t, got.Equals(tt.b.Intersect(tt.a)))
		})
	}
}

func TestNumberSet_Contains(t *testing.T) {
	s := NewNumberSet(3, 7, 42)

	assert.True(t, s.Contains(7))
	assert.False(t, s.Contains(8))
	assert.False(t, NumberSet{}.Contains(1))
}

func TestParseNumberSetKey(t *testing.T) {
	s, err := ParseNumberSetKey("10,2,9")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 9, 10}, s.Values())

	empty, err := ParseNumberSetKey("")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = ParseNumberSetKey("1,x")
	assert.Error(t, err)
}

func TestNumberSet_JSON(t *testing.T) {
	data, err := json.Marshal(NewNumberSet(3, 1, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2,3]`, string(data))

	var s NumberSet
	require.NoError(t, json.Unmarshal([]byte(`[5,1,5]`), &s))
	assert.Equal(t, []int{1, 5}, s.Values())
}

func TestNumberSet_ValuesIsACopy(t *testing.T) {
	s := NewNumberSet(1, 2)
	values := s.Values()
	values[0] = 99
	assert.Equal(t, []int{1, 2}, s.Values())
}
