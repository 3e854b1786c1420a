// Package services holds application services that orchestrate the domain.
package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"srm-backend/application/ports"
	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
	domainservices "srm-backend/domain/services"
	pkgerrors "srm-backend/pkg/errors"
)

const defaultDebounce = 500 * time.Millisecond

// Snapshot is one immutable result of loading and transforming the matrix
type Snapshot struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Source   string
	Matrix   *valueobjects.BinaryMatrix
	Graph    *aggregates.GroupGraph
}

// DatasetService keeps the latest group graph for the configured source.
// Readers always see a complete snapshot; a failed reload leaves the
// previous one in place.
type DatasetService struct {
	source    ports.MatrixSource
	discovery *domainservices.GroupDiscovery
	metrics   ports.DatasetMetrics
	tracer    trace.Tracer
	logger    *zap.Logger

	mu       sync.RWMutex
	current  *Snapshot
	reloadMu sync.Mutex
	debounce time.Duration
}

// NewDatasetService creates a dataset service
func NewDatasetService(
	source ports.MatrixSource,
	discovery *domainservices.GroupDiscovery,
	metrics ports.DatasetMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *DatasetService {
	if metrics == nil {
		metrics = ports.NoopDatasetMetrics{}
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetService{
		source:    source,
		discovery: discovery,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
		debounce:  defaultDebounce,
	}
}

// Policy returns the edge policy used for the dataset graph
func (s *DatasetService) Policy() aggregates.EdgePolicy {
	return s.discovery.Policy()
}

// SourceName describes the configured source
func (s *DatasetService) SourceName() string {
	return s.source.Describe()
}

// Current returns the latest snapshot
func (s *DatasetService) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, pkgerrors.NewUnavailableError("dataset").WithCode(pkgerrors.CodeDatasetMissing)
	}
	return s.current, nil
}

// Ready reports whether a snapshot has been loaded
func (s *DatasetService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Version returns the current snapshot ID, or "" before the first load
func (s *DatasetService) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID.String()
}

// Discover runs group discovery on a matrix under a span, recording its duration
func (s *DatasetService) Discover(ctx context.Context, matrix *valueobjects.BinaryMatrix, policy aggregates.EdgePolicy) (*aggregates.GroupGraph, error) {
	_, span := s.tracer.Start(ctx, "groups.transform",
		trace.WithAttributes(attribute.String("edge.policy", policy.String())))
	defer span.End()

	discovery := s.discovery
	if policy != discovery.Policy() {
		discovery = domainservices.NewGroupDiscovery(policy)
	}

	start := time.Now()
	graph, err := discovery.Transform(matrix)
	s.metrics.ObserveTransform(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("matrix.items", matrix.ItemCount()),
		attribute.Int("matrix.users", matrix.UserCount()),
		attribute.Int("graph.groups", graph.NodeCount()),
		attribute.Int("graph.overlaps", graph.EdgeCount()),
	)
	return graph, nil
}

// Reload loads the matrix from the source and swaps in a new snapshot
func (s *DatasetService) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, span := s.tracer.Start(ctx, "dataset.reload",
		trace.WithAttributes(attribute.String("dataset.source", s.source.Describe())))
	defer span.End()

	snapshot, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.RecordReload("failure")
		s.logger.Error("Failed to reload dataset",
			zap.String("source", s.source.Describe()),
			zap.Bool("keptPrevious", s.Ready()),
			zap.Error(err),
		)
		return nil, err
	}

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()

	s.metrics.RecordReload("success")
	s.metrics.ObserveSnapshot(snapshot.Graph.NodeCount(), snapshot.Graph.EdgeCount())
	span.SetAttributes(attribute.String("dataset.snapshot", snapshot.ID.String()))

	s.logger.Info("Dataset loaded",
		zap.String("snapshotID", snapshot.ID.String()),
		zap.String("source", snapshot.Source),
		zap.Int("items", snapshot.Matrix.ItemCount()),
		zap.Int("users", snapshot.Matrix.UserCount()),
		zap.Int("groups", snapshot.Graph.NodeCount()),
		zap.Int("overlaps", snapshot.Graph.EdgeCount()),
	)
	return snapshot, nil
}

func (s *DatasetService) load(ctx context.Context) (*Snapshot, error) {
	matrix, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load matrix: %w", err)
	}

	graph, err := s.Discover(ctx, matrix, s.discovery.Policy())
	if err != nil {
		return nil, fmt.Errorf("failed to discover groups: %w", err)
	}

	return &Snapshot{
		ID:       uuid.New(),
		LoadedAt: time.Now().UTC(),
		Source:   s.source.Describe(),
		Matrix:   matrix,
		Graph:    graph,
	}, nil
}

// Watch reloads the dataset whenever the source file is written or replaced.
// It blocks until ctx is cancelled.
func (s *DatasetService) Watch(ctx context.Context) error {
	watchable, ok := s.source.(ports.WatchableSource)
	if !ok {
		return fmt.Errorf("source %s cannot be watched", s.source.Describe())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so the directory is watched.
	target := filepath.Clean(watchable.Path())
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}

	s.logger.Info("Watching dataset file", zap.String("path", target))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping dataset watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.logger.Debug("Dataset file changed",
					zap.String("file", event.Name),
					zap.String("operation", event.Op.String()),
				)
				pending = time.After(s.debounce)
			}

		case <-pending:
			pending = nil
			// Errors are logged by Reload; the previous snapshot stays live.
			_, _ = s.Reload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

// Refresh reloads the dataset every interval until ctx is cancelled
func (s *DatasetService) Refresh(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("refresh interval must be positive")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Refreshing dataset periodically", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = s.Reload(ctx)
		}
	}
}
