// Package rest wires the HTTP API onto a chi router.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	querybus "srm-backend/application/queries/bus"
	appservices "srm-backend/application/services"
	"srm-backend/infrastructure/config"
	"srm-backend/interfaces/http/rest/handlers"
	"srm-backend/interfaces/http/rest/middleware"
	pkgerrors "srm-backend/pkg/errors"
	"srm-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	queryBus   *querybus.QueryBus
	dataset    *appservices.DatasetService
	collector  *observability.Collector
	tracer     trace.Tracer
	errHandler *pkgerrors.ErrorHandler
	cfg        *config.Config
	logger     *zap.Logger
}

// NewRouter creates a new router instance. A nil collector disables /metrics
// and request metrics; a nil tracer disables request spans.
func NewRouter(
	queryBus *querybus.QueryBus,
	dataset *appservices.DatasetService,
	collector *observability.Collector,
	tracer trace.Tracer,
	errHandler *pkgerrors.ErrorHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		queryBus:   queryBus,
		dataset:    dataset,
		collector:  collector,
		tracer:     tracer,
		errHandler: errHandler,
		cfg:        cfg,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.tracer != nil {
		router.Use(middleware.Tracing(rt.tracer))
	}
	if rt.collector != nil {
		router.Use(middleware.Metrics(rt.collector))
	}

	if rt.cfg.CORS.Enabled {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-Trace-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	graphHandler := handlers.NewGraphHandler(rt.queryBus, rt.errHandler, rt.logger)
	datasetHandler := handlers.NewDatasetHandler(rt.queryBus, rt.dataset, rt.errHandler, rt.logger)
	transformHandler := handlers.NewTransformHandler(rt.queryBus, rt.errHandler, rt.cfg.Server.MaxRequestBytes, rt.logger)

	// Legacy document consumed by the original renderer
	router.Get("/data", graphHandler.GetLegacyData)

	router.Route("/api/v2", func(r chi.Router) {
		r.Get("/graph-data", graphHandler.GetGraphData)
		r.Get("/heatmap", graphHandler.GetHeatmap)
		r.Get("/euler", graphHandler.GetEuler)
		r.Get("/groups/{groupID}", graphHandler.GetGroup)

		r.Route("/dataset", func(r chi.Router) {
			r.Get("/", datasetHandler.GetDataset)
			r.Post("/reload", datasetHandler.ReloadDataset)
		})

		r.Post("/transform", transformHandler.Transform)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errHandler.Handle(w, r, pkgerrors.NewNotFoundError("route "+r.URL.Path))
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once a dataset snapshot is loaded
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !rt.dataset.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"not_ready"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
