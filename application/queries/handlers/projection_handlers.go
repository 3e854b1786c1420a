package handlers

import (
	"context"

	"go.uber.org/zap"

	"srm-backend/application/queries"
	appservices "srm-backend/application/services"
	domainservices "srm-backend/domain/services"
)

// GetHeatmapHandler projects the dataset graph onto a group × number grid
type GetHeatmapHandler struct {
	dataset   *appservices.DatasetService
	maxNumber int
	logger    *zap.Logger
}

// NewGetHeatmapHandler creates a heatmap handler. maxNumber is the axis
// length used when the matrix has no rows.
func NewGetHeatmapHandler(dataset *appservices.DatasetService, maxNumber int, logger *zap.Logger) *GetHeatmapHandler {
	return &GetHeatmapHandler{
		dataset:   dataset,
		maxNumber: maxNumber,
		logger:    logger,
	}
}

// Handle executes the heatmap query
func (h *GetHeatmapHandler) Handle(ctx context.Context, query queries.GetHeatmapQuery) (*domainservices.Heatmap, error) {
	snapshot, err := h.dataset.Current()
	if err != nil {
		return nil, err
	}

	axis := snapshot.Matrix.ItemCount()
	if axis == 0 {
		axis = h.maxNumber
	}

	graph := domainservices.ApplyFilter(snapshot.Graph, query.Filter.Visibility())
	heatmap := domainservices.BuildHeatmap(graph, axis)

	h.logger.Debug("Heatmap built",
		zap.Int("groups", len(heatmap.Groups)),
		zap.Int("numbers", len(heatmap.Numbers)),
		zap.Int("cells", len(heatmap.Cells)),
	)
	return &heatmap, nil
}

// GetEulerHandler projects the dataset graph onto set and overlap areas
type GetEulerHandler struct {
	dataset *appservices.DatasetService
	logger  *zap.Logger
}

// NewGetEulerHandler creates an euler handler
func NewGetEulerHandler(dataset *appservices.DatasetService, logger *zap.Logger) *GetEulerHandler {
	return &GetEulerHandler{
		dataset: dataset,
		logger:  logger,
	}
}

// Handle executes the euler query
func (h *GetEulerHandler) Handle(ctx context.Context, query queries.GetEulerQuery) (*domainservices.EulerDiagram, error) {
	snapshot, err := h.dataset.Current()
	if err != nil {
		return nil, err
	}

	graph := domainservices.ApplyFilter(snapshot.Graph, query.Filter.Visibility())
	diagram := domainservices.BuildEuler(graph)
	return &diagram, nil
}
