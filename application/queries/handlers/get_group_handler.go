package handlers

import (
	"cmp"
	"context"
	"slices"

	"go.uber.org/zap"

	"srm-backend/application/queries"
	appservices "srm-backend/application/services"
	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
	pkgerrors "srm-backend/pkg/errors"
)

// GetGroupHandler returns one group with its members and overlaps
type GetGroupHandler struct {
	dataset *appservices.DatasetService
	logger  *zap.Logger
}

// NewGetGroupHandler creates a group detail handler
func NewGetGroupHandler(dataset *appservices.DatasetService, logger *zap.Logger) *GetGroupHandler {
	return &GetGroupHandler{
		dataset: dataset,
		logger:  logger,
	}
}

// Handle executes the group query
func (h *GetGroupHandler) Handle(ctx context.Context, query queries.GetGroupQuery) (*queries.GroupDetail, error) {
	id, err := valueobjects.ParseGroupID(query.GroupID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error()).WithCode(pkgerrors.CodeInvalidQuery)
	}

	snapshot, err := h.dataset.Current()
	if err != nil {
		return nil, err
	}

	node, ok := snapshot.Graph.Node(id)
	if !ok {
		return nil, pkgerrors.NewNotFoundError(id.String()).
			WithCode(pkgerrors.CodeGroupNotFound).
			WithDetails(map[string]interface{}{"group_id": id.String()})
	}

	// Heaviest overlaps first; ties keep discovery order.
	neighbors := snapshot.Graph.Neighbors(id)
	slices.SortStableFunc(neighbors, func(a, b aggregates.Neighbor) int {
		return cmp.Compare(b.Weight, a.Weight)
	})

	detail := &queries.GroupDetail{
		ID:        node.ID.String(),
		Numbers:   node.Numbers.Values(),
		Size:      node.Size(),
		Members:   append([]string{}, node.Members...),
		Neighbors: make([]queries.NeighborView, 0, len(neighbors)),
	}
	for _, n := range neighbors {
		detail.Neighbors = append(detail.Neighbors, queries.NeighborView{ID: n.ID.String(), Weight: n.Weight})
	}

	h.logger.Debug("Group retrieved",
		zap.String("groupID", detail.ID),
		zap.Int("members", len(detail.Members)),
		zap.Int("neighbors", len(detail.Neighbors)),
	)
	return detail, nil
}
