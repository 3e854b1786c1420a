package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"srm-backend/application/queries"
	querybus "srm-backend/application/queries/bus"
	appservices "srm-backend/application/services"
	pkgerrors "srm-backend/pkg/errors"
)

// DatasetHandler reports on and reloads the loaded dataset
type DatasetHandler struct {
	queryBus *querybus.QueryBus
	dataset  *appservices.DatasetService
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewDatasetHandler creates a dataset handler
func NewDatasetHandler(
	queryBus *querybus.QueryBus,
	dataset *appservices.DatasetService,
	errHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		queryBus: queryBus,
		dataset:  dataset,
		errors:   errHandler,
		logger:   logger,
	}
}

// GetDataset handles GET /api/v2/dataset
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetDatasetInfoQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// ReloadDataset handles POST /api/v2/dataset/reload
func (h *DatasetHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.dataset.Reload(r.Context()); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetDatasetInfoQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
