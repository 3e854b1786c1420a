package handlers

import (
	"context"

	"go.uber.org/zap"

	"srm-backend/application/queries"
	appservices "srm-backend/application/services"
	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
	domainservices "srm-backend/domain/services"
)

// TransformMatrixHandler runs group discovery on a posted matrix
type TransformMatrixHandler struct {
	dataset *appservices.DatasetService
	logger  *zap.Logger
}

// NewTransformMatrixHandler creates a transform handler
func NewTransformMatrixHandler(dataset *appservices.DatasetService, logger *zap.Logger) *TransformMatrixHandler {
	return &TransformMatrixHandler{
		dataset: dataset,
		logger:  logger,
	}
}

// Handle executes the transform query
func (h *TransformMatrixHandler) Handle(ctx context.Context, query queries.TransformMatrixQuery) (*queries.GetGraphDataResult, error) {
	var users []string
	if len(query.Users) > 0 {
		users = query.Users
	}

	matrix, err := valueobjects.NewBinaryMatrix(query.Rows, users)
	if err != nil {
		return nil, err
	}

	policy := aggregates.EdgesUndirected
	if query.Directed {
		policy = aggregates.EdgesDirected
	}

	graph, err := h.dataset.Discover(ctx, matrix, policy)
	if err != nil {
		return nil, err
	}

	result := queries.NewGraphDataResult(domainservices.ApplyFilter(graph, query.Filter.Visibility()))

	h.logger.Debug("Matrix transformed",
		zap.Int("items", matrix.ItemCount()),
		zap.Int("users", matrix.UserCount()),
		zap.Int("groups", result.Stats.NodeCount),
		zap.String("edgePolicy", policy.String()),
	)
	return result, nil
}
