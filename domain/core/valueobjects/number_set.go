package valueobjects

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NumberSet is an immutable, strictly ascending set of item numbers
type NumberSet struct {
	values []int
}

// NewNumberSet creates a NumberSet, sorting numerically and dropping duplicates
func NewNumberSet(values ...int) NumberSet {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return NumberSet{values: slices.Compact(sorted)}
}

// ParseNumberSetKey parses a canonical key such as "1,2,10"
func ParseNumberSetKey(key string) (NumberSet, error) {
	if key == "" {
		return NumberSet{}, nil
	}
	parts := strings.Split(key, ",")
	values := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return NumberSet{}, fmt.Errorf("invalid number %q in key: %w", part, err)
		}
		values[i] = n
	}
	return NewNumberSet(values...), nil
}

// Len returns the number of elements
func (s NumberSet) Len() int {
	return len(s.values)
}

// IsEmpty reports whether the set has no elements
func (s NumberSet) IsEmpty() bool {
	return len(s.values) == 0
}

// Values returns a copy of the ascending elements
func (s NumberSet) Values() []int {
	values := make([]int, len(s.values))
	copy(values, s.values)
	return values
}

// Max returns the largest element, or 0 for an empty set
func (s NumberSet) Max() int {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

// Contains reports whether n is in the set
func (s NumberSet) Contains(n int) bool {
	_, found := slices.BinarySearch(s.values, n)
	return found
}

// Intersect returns the elements present in both sets
func (s NumberSet) Intersect(other NumberSet) NumberSet {
	shared := make([]int, 0)
	i, j := 0, 0
	for i < len(s.values) && j < len(other.values) {
		switch {
		case s.values[i] < other.values[j]:
			i++
		case s.values[i] > other.values[j]:
			j++
		default:
			shared = append(shared, s.values[i])
			i++
			j++
		}
	}
	return NumberSet{values: shared}
}

// IntersectionSize counts the elements present in both sets
func (s NumberSet) IntersectionSize(other NumberSet) int {
	return s.Intersect(other).Len()
}

// ContainsAny reports whether the sets share at least one element
func (s NumberSet) ContainsAny(other NumberSet) bool {
	return s.IntersectionSize(other) > 0
}

// Equals checks if two sets hold the same elements
func (s NumberSet) Equals(other NumberSet) bool {
	return slices.Equal(s.values, other.values)
}

// Key returns the canonical comma-joined form, numerically ordered
func (s NumberSet) Key() string {
	parts := make([]string, len(s.values))
	for i, n := range s.values {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// String returns the canonical key
func (s NumberSet) String() string {
	return s.Key()
}

// MarshalJSON encodes the set as an ascending JSON array
func (s NumberSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array, normalising order
func (s *NumberSet) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewNumberSet(values...)
	return nil
}
