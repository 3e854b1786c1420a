package di

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"srm-backend/application/ports"
	querybus "srm-backend/application/queries/bus"
	"srm-backend/application/queries/handlers"
	appservices "srm-backend/application/services"
	"srm-backend/domain/core/aggregates"
	domainservices "srm-backend/domain/services"
	"srm-backend/infrastructure/config"
	"srm-backend/infrastructure/loaders"
	"srm-backend/interfaces/http/rest"
	pkgerrors "srm-backend/pkg/errors"
	"srm-backend/pkg/observability"
)

// ProvideLogger creates a zap logger for the environment at the configured level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// ProvideCollector creates the Prometheus collector, or nil when metrics are disabled
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.NewCollector(cfg.Metrics.Namespace)
}

// ProvideTracerProvider initializes tracing
func ProvideTracerProvider(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	return observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: string(cfg.Environment),
		Endpoint:    cfg.Tracing.Endpoint,
	})
}

// ProvideTracer returns the service tracer
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	return tp.Tracer()
}

// ProvideMatrixSource picks a remote or file source. A URL wins over a path.
func ProvideMatrixSource(cfg *config.Config, logger *zap.Logger) (ports.MatrixSource, error) {
	format, err := loaders.ParseFormat(cfg.Data.Format)
	if err != nil {
		return nil, err
	}

	if !cfg.Data.UsesURL() {
		return loaders.NewFileSource(cfg.Data.Path, format), nil
	}

	cb := cfg.CircuitBreaker
	return loaders.NewHTTPSource(cfg.Data.URL, format, cfg.Data.FetchTimeout, loaders.BreakerConfig{
		Name:             "matrix-source",
		MaxRequests:      cb.MaxRequests,
		Interval:         cb.Interval,
		Timeout:          cb.Timeout,
		FailureThreshold: cb.FailureThreshold,
		MinRequests:      cb.MinRequests,
	}, logger)
}

// ProvideGroupDiscovery creates the transform with the configured edge policy
func ProvideGroupDiscovery(cfg *config.Config) *domainservices.GroupDiscovery {
	if cfg.Graph.DirectedEdges {
		return domainservices.NewGroupDiscovery(aggregates.EdgesDirected)
	}
	return domainservices.NewGroupDiscovery(aggregates.EdgesUndirected)
}

// ProvideDatasetMetrics adapts the collector, falling back to no-op metrics
func ProvideDatasetMetrics(collector *observability.Collector) ports.DatasetMetrics {
	if collector == nil {
		return ports.NoopDatasetMetrics{}
	}
	return collector
}

// ProvideDatasetService creates the dataset service
func ProvideDatasetService(
	source ports.MatrixSource,
	discovery *domainservices.GroupDiscovery,
	metrics ports.DatasetMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *appservices.DatasetService {
	return appservices.NewDatasetService(source, discovery, metrics, tracer, logger)
}

// ProvideQueryCache creates the query result cache, or nil when caching is disabled
func ProvideQueryCache(cfg *config.Config) *InMemoryCache {
	if !cfg.QueryCache.Enabled {
		return nil
	}
	return NewInMemoryCache(cfg.QueryCache.CleanupInterval)
}

// ProvideQueryBus creates the query bus with every handler registered.
// Metrics wrap the cache so hits are observed too.
func ProvideQueryBus(
	dataset *appservices.DatasetService,
	cache *InMemoryCache,
	collector *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	var middleware []querybus.Middleware
	if collector != nil {
		middleware = append(middleware, querybus.NewMetricsMiddleware(collector))
	}
	if cache != nil {
		middleware = append(middleware, querybus.NewCachingMiddleware(cache, cfg.QueryCache.TTL, dataset))
	}

	b := querybus.NewQueryBus(middleware...)
	if err := handlers.RegisterAll(b, dataset, cfg.Data.MaxItemNumber, logger); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}
	return b, nil
}

// ProvideErrorHandler creates the HTTP error handler; development exposes causes
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter creates the REST router
func ProvideRouter(
	queryBus *querybus.QueryBus,
	dataset *appservices.DatasetService,
	collector *observability.Collector,
	tracer trace.Tracer,
	errHandler *pkgerrors.ErrorHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(queryBus, dataset, collector, tracer, errHandler, cfg, logger)
}
