package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"srm-backend/application/queries"
	querybus "srm-backend/application/queries/bus"
	pkgerrors "srm-backend/pkg/errors"
)

// GraphHandler serves the group graph and its projections
type GraphHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(queryBus *querybus.QueryBus, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		queryBus: queryBus,
		errors:   errHandler,
		logger:   logger,
	}
}

// GetGraphData handles GET /api/v2/graph-data
func (h *GraphHandler) GetGraphData(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	query := queries.GetGraphDataQuery{Filter: filter}
	if raw := r.URL.Query().Get("directed"); raw != "" {
		directed, err := boolParam(raw, "directed")
		if err != nil {
			h.errors.Handle(w, r, err)
			return
		}
		query.Directed = &directed
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// legacyGraph is the {nodes, links} document the first renderer consumed
type legacyGraph struct {
	Nodes []queries.GraphNode `json:"nodes"`
	Links []queries.GraphEdge `json:"links"`
}

// GetLegacyData handles GET /data. Links are always undirected.
func (h *GraphHandler) GetLegacyData(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetGraphDataQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	data := result.(*queries.GetGraphDataResult)

	position := make(map[string]int, len(data.Nodes))
	for i, n := range data.Nodes {
		position[n.ID] = i
	}
	links := make([]queries.GraphEdge, 0, len(data.Edges))
	for _, e := range data.Edges {
		if position[e.Source] < position[e.Target] {
			links = append(links, e)
		}
	}

	respondJSON(w, h.logger, http.StatusOK, legacyGraph{Nodes: data.Nodes, Links: links})
}

// GetHeatmap handles GET /api/v2/heatmap
func (h *GraphHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetHeatmapQuery{Filter: filter})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// GetEuler handles GET /api/v2/euler
func (h *GraphHandler) GetEuler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetEulerQuery{Filter: filter})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// GetGroup handles GET /api/v2/groups/{groupID}
func (h *GraphHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetGroupQuery{GroupID: groupID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}
