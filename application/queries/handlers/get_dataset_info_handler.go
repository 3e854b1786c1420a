package handlers

import (
	"context"

	"srm-backend/application/queries"
	appservices "srm-backend/application/services"
)

// GetDatasetInfoHandler describes the loaded snapshot
type GetDatasetInfoHandler struct {
	dataset *appservices.DatasetService
}

// NewGetDatasetInfoHandler creates a dataset info handler
func NewGetDatasetInfoHandler(dataset *appservices.DatasetService) *GetDatasetInfoHandler {
	return &GetDatasetInfoHandler{dataset: dataset}
}

// Handle executes the dataset info query
func (h *GetDatasetInfoHandler) Handle(ctx context.Context, _ queries.GetDatasetInfoQuery) (*queries.DatasetInfo, error) {
	snapshot, err := h.dataset.Current()
	if err != nil {
		return nil, err
	}

	return &queries.DatasetInfo{
		SnapshotID: snapshot.ID.String(),
		Source:     snapshot.Source,
		LoadedAt:   snapshot.LoadedAt,
		Items:      snapshot.Matrix.ItemCount(),
		Users:      snapshot.Matrix.Users(),
		Groups:     snapshot.Graph.NodeCount(),
		Overlaps:   snapshot.Graph.EdgeCount(),
		EdgePolicy: snapshot.Graph.Policy().String(),
	}, nil
}
