package services

import (
	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
)

// VisibilityFilter selects which groups a view shows.
// MaxNumbers of zero means no upper bound; an empty Selected set shows every group.
type VisibilityFilter struct {
	MinNumbers int
	MaxNumbers int
	Selected   valueobjects.NumberSet
}

// IsZero reports whether the filter keeps every group
func (f VisibilityFilter) IsZero() bool {
	return f.MinNumbers <= 0 && f.MaxNumbers <= 0 && f.Selected.IsEmpty()
}

// Visible reports whether a group passes the filter
func (f VisibilityFilter) Visible(node aggregates.GroupNode) bool {
	count := node.Numbers.Len()
	if count < f.MinNumbers {
		return false
	}
	if f.MaxNumbers > 0 && count > f.MaxNumbers {
		return false
	}
	return f.Selected.IsEmpty() || node.Numbers.ContainsAny(f.Selected)
}

// ApplyFilter returns the visible groups and the edges between them.
// Group ids are never renumbered.
func ApplyFilter(graph *aggregates.GroupGraph, filter VisibilityFilter) *aggregates.GroupGraph {
	if filter.IsZero() {
		return graph
	}
	return graph.Subgraph(filter.Visible)
}
