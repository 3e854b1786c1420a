package queries

import (
	"srm-backend/domain/core/valueobjects"
	pkgerrors "srm-backend/pkg/errors"
)

// GetGroupQuery asks for one group with its members and neighbors
type GetGroupQuery struct {
	GroupID string `json:"group_id" validate:"required"`
}

// Validate validates the query
func (q GetGroupQuery) Validate() error {
	if err := validateStruct(q); err != nil {
		return err
	}
	if _, err := valueobjects.ParseGroupID(q.GroupID); err != nil {
		return pkgerrors.NewValidationError(err.Error()).WithCode(pkgerrors.CodeInvalidQuery)
	}
	return nil
}

// GroupDetail is a group with the users sharing it and its overlaps
type GroupDetail struct {
	ID        string         `json:"id"`
	Numbers   []int          `json:"numbers"`
	Size      int            `json:"size"`
	Members   []string       `json:"members"`
	Neighbors []NeighborView `json:"neighbors"`
}

// NeighborView is an adjacent group
type NeighborView struct {
	ID     string `json:"id"`
	Weight int    `json:"weight"`
}
