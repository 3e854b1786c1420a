package valueobjects

import (
	"errors"
	"strconv"
	"strings"
)

const groupIDPrefix = "Group "

// GroupID identifies a discovered group, e.g. "Group 3"
type GroupID string

// NewGroupID creates the id for the seq-th discovered group (1-based)
func NewGroupID(seq int) GroupID {
	return GroupID(groupIDPrefix + strconv.Itoa(seq))
}

// ParseGroupID accepts "Group 3" or a bare "3"
func ParseGroupID(s string) (GroupID, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return "", errors.New("group ID cannot be empty")
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, strings.TrimSpace(groupIDPrefix)))
	seq, err := strconv.Atoi(raw)
	if err != nil || seq < 1 {
		return "", errors.New("group ID must look like \"Group N\" with N >= 1")
	}
	return NewGroupID(seq), nil
}

// String returns the string representation
func (id GroupID) String() string {
	return string(id)
}
