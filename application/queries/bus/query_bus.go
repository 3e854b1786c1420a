// Package bus dispatches read-only queries to their registered handlers.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	pkgerrors "srm-backend/pkg/errors"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// Middleware decorates a query handler
type Middleware interface {
	Wrap(next QueryHandler) QueryHandler
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers   map[reflect.Type]QueryHandler
	middleware []Middleware
	mu         sync.RWMutex
}

// NewQueryBus creates a new query bus; middleware wraps every handler registered afterwards
func NewQueryBus(middleware ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:   make(map[reflect.Type]QueryHandler),
		middleware: middleware,
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i].Wrap(handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		if pkgerrors.IsAppError(err) {
			return nil, err
		}
		return nil, pkgerrors.NewValidationError(err.Error()).
			WithCode(pkgerrors.CodeInvalidQuery).
			WithCause(err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no handler registered for query type %T", query)
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query handler failed: %w", err)
	}

	return result, nil
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Cache stores handler results
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Versioner reports the version of the data queries read from.
// An empty version means there is nothing to cache against.
type Versioner interface {
	Version() string
}

// Uncached is implemented by queries whose results must never be cached
type Uncached interface {
	SkipCache()
}

// CachingMiddleware adds caching to query handlers. Keys include the data
// version, so entries from an older version are never served.
type CachingMiddleware struct {
	cache   Cache
	ttl     time.Duration
	version Versioner
}

// NewCachingMiddleware creates a new caching middleware
func NewCachingMiddleware(cache Cache, ttl time.Duration, version Versioner) *CachingMiddleware {
	return &CachingMiddleware{
		cache:   cache,
		ttl:     ttl,
		version: version,
	}
}

// Wrap wraps a query handler with caching
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		if _, skip := query.(Uncached); skip {
			return next.Handle(ctx, query)
		}
		version := m.version.Version()
		if version == "" {
			return next.Handle(ctx, query)
		}
		cacheKey, err := m.generateCacheKey(version, query)
		if err != nil {
			return next.Handle(ctx, query)
		}

		if cached, found := m.cache.Get(ctx, cacheKey); found {
			return cached, nil
		}

		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}

		// A failed Set only costs a recomputation on the next request.
		_ = m.cache.Set(ctx, cacheKey, result, m.ttl)
		return result, nil
	})
}

// generateCacheKey encodes the query as JSON so pointer fields key by value
func (m *CachingMiddleware) generateCacheKey(version string, query Query) (string, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%T:%s", version, query, body), nil
}

// Metrics receives one observation per handled query
type Metrics interface {
	ObserveQuery(query, outcome string, duration time.Duration)
}

// MetricsMiddleware adds metrics to query handlers
type MetricsMiddleware struct {
	metrics Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

// Wrap wraps a query handler with metrics
func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		queryType := reflect.TypeOf(query).Name()
		start := time.Now()

		result, err := next.Handle(ctx, query)
		if err != nil {
			m.metrics.ObserveQuery(queryType, "error", time.Since(start))
			return nil, err
		}

		m.metrics.ObserveQuery(queryType, "success", time.Since(start))
		return result, nil
	})
}
