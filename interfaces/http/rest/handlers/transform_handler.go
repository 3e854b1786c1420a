package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"srm-backend/application/queries"
	querybus "srm-backend/application/queries/bus"
	pkgerrors "srm-backend/pkg/errors"
)

// transformRequest is the body of POST /api/v2/transform
type transformRequest struct {
	Users    []string `json:"users"`
	Rows     [][]int  `json:"rows"`
	Directed bool     `json:"directed"`
}

// TransformHandler runs group discovery on a posted matrix
type TransformHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	maxBytes int64
	logger   *zap.Logger
}

// NewTransformHandler creates a transform handler
func NewTransformHandler(queryBus *querybus.QueryBus, errHandler *pkgerrors.ErrorHandler, maxBytes int64, logger *zap.Logger) *TransformHandler {
	return &TransformHandler{
		queryBus: queryBus,
		errors:   errHandler,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Transform handles POST /api/v2/transform. The query string accepts the
// same filter parameters as the graph endpoints plus directed=true.
func (h *TransformHandler) Transform(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req transformRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("request body too large").
				WithDetails(map[string]interface{}{"limit_bytes": tooLarge.Limit}))
			return
		}
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()).
			WithCode(pkgerrors.CodeInvalidMatrix))
		return
	}

	directed := req.Directed
	if raw := r.URL.Query().Get("directed"); raw != "" {
		if directed, err = boolParam(raw, "directed"); err != nil {
			h.errors.Handle(w, r, err)
			return
		}
	}

	result, err := h.queryBus.Ask(r.Context(), queries.TransformMatrixQuery{
		Users:    req.Users,
		Rows:     req.Rows,
		Directed: directed,
		Filter:   filter,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
