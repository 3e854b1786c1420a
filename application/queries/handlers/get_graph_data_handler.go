// Package handlers implements the query handlers registered on the query bus.
package handlers

import (
	"context"

	"go.uber.org/zap"

	"srm-backend/application/queries"
	appservices "srm-backend/application/services"
	"srm-backend/domain/core/aggregates"
	domainservices "srm-backend/domain/services"
)

// GetGraphDataHandler handles graph data visualization queries
type GetGraphDataHandler struct {
	dataset *appservices.DatasetService
	logger  *zap.Logger
}

// NewGetGraphDataHandler creates a new graph data handler
func NewGetGraphDataHandler(dataset *appservices.DatasetService, logger *zap.Logger) *GetGraphDataHandler {
	return &GetGraphDataHandler{
		dataset: dataset,
		logger:  logger,
	}
}

// Handle executes the graph data query
func (h *GetGraphDataHandler) Handle(ctx context.Context, query queries.GetGraphDataQuery) (*queries.GetGraphDataResult, error) {
	snapshot, err := h.dataset.Current()
	if err != nil {
		return nil, err
	}

	graph := snapshot.Graph
	if query.Directed != nil {
		policy := aggregates.EdgesUndirected
		if *query.Directed {
			policy = aggregates.EdgesDirected
		}
		if policy != graph.Policy() {
			if graph, err = h.dataset.Discover(ctx, snapshot.Matrix, policy); err != nil {
				return nil, err
			}
		}
	}

	full := graph.NodeCount()
	graph = domainservices.ApplyFilter(graph, query.Filter.Visibility())
	result := queries.NewGraphDataResult(graph)
	result.SnapshotID = snapshot.ID.String()

	h.logger.Debug("Graph data retrieved",
		zap.String("snapshotID", result.SnapshotID),
		zap.Int("nodeCount", result.Stats.NodeCount),
		zap.Int("edgeCount", result.Stats.EdgeCount),
		zap.Int("hiddenGroups", full-graph.NodeCount()),
	)

	return result, nil
}
