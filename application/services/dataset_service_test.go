package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
	domainservices "srm-backend/domain/services"
	"srm-backend/infrastructure/loaders"
	pkgerrors "srm-backend/pkg/errors"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Load(ctx context.Context) (*valueobjects.BinaryMatrix, error) {
	args := m.Called(ctx)
	if matrix := args.Get(0); matrix != nil {
		return matrix.(*valueobjects.BinaryMatrix), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSource) Describe() string {
	return "mock"
}

type recordingMetrics struct {
	reloads    []string
	groups     int
	overlaps   int
	transforms int
}

func (r *recordingMetrics) ObserveTransform(time.Duration) { r.transforms++ }
func (r *recordingMetrics) ObserveSnapshot(groups, overlaps int) {
	r.groups, r.overlaps = groups, overlaps
}
func (r *recordingMetrics) RecordReload(status string) { r.reloads = append(r.reloads, status) }

func scenarioMatrix(t *testing.T) *valueobjects.BinaryMatrix {
	t.Helper()
	m, err := valueobjects.NewBinaryMatrix([][]int{
		{1, 1, 1},
		{1, 1, 1},
		{0, 1, 1},
		{1, 0, 0},
		{0, 0, 1},
	}, []string{"A", "B", "C"})
	require.NoError(t, err)
	return m
}

func TestDatasetService_CurrentBeforeLoad(t *testing.T) {
	svc := NewDatasetService(&mockSource{}, domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), nil, nil, zap.NewNop())

	_, err := svc.Current()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	assert.False(t, svc.Ready())
}

func TestDatasetService_Reload(t *testing.T) {
	// Arrange
	source := &mockSource{}
	source.On("Load", mock.Anything).Return(scenarioMatrix(t), nil)
	metrics := &recordingMetrics{}
	svc := NewDatasetService(source, domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), metrics, nil, zap.NewNop())

	// Act
	snapshot, err := svc.Reload(context.Background())

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.ID.String())
	assert.Equal(t, "mock", snapshot.Source)
	assert.Equal(t, 2, snapshot.Graph.NodeCount())
	assert.Equal(t, 1, snapshot.Graph.EdgeCount())
	assert.True(t, svc.Ready())

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Same(t, snapshot, current)

	assert.Equal(t, []string{"success"}, metrics.reloads)
	assert.Equal(t, 2, metrics.groups)
	assert.Equal(t, 1, metrics.overlaps)
	assert.Equal(t, 1, metrics.transforms)
	source.AssertExpectations(t)
}

func TestDatasetService_VersionTracksSnapshot(t *testing.T) {
	source := &mockSource{}
	source.On("Load", mock.Anything).Return(scenarioMatrix(t), nil)
	svc := NewDatasetService(source, domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), nil, nil, zap.NewNop())
	assert.Empty(t, svc.Version())

	first, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ID.String(), svc.Version())

	second, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ID.String(), svc.Version())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDatasetService_FailedReloadKeepsSnapshot(t *testing.T) {
	source := &mockSource{}
	source.On("Load", mock.Anything).Return(scenarioMatrix(t), nil).Once()
	source.On("Load", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	metrics := &recordingMetrics{}
	svc := NewDatasetService(source, domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), metrics, nil, zap.NewNop())

	first, err := svc.Reload(context.Background())
	require.NoError(t, err)

	_, err = svc.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	current, err := svc.Current()
	require.NoError(t, err)
	assert.Same(t, first, current)
	assert.Equal(t, []string{"success", "failure"}, metrics.reloads)
}

func TestDatasetService_DiscoverWithOtherPolicy(t *testing.T) {
	svc := NewDatasetService(&mockSource{}, domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), nil, nil, nil)

	graph, err := svc.Discover(context.Background(), scenarioMatrix(t), aggregates.EdgesDirected)
	require.NoError(t, err)
	assert.Equal(t, aggregates.EdgesDirected, graph.Policy())
	assert.Equal(t, 2, graph.EdgeCount())
	assert.Equal(t, aggregates.EdgesUndirected, svc.Policy())
}

func TestDatasetService_WatchRequiresFile(t *testing.T) {
	svc := NewDatasetService(&mockSource{}, domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), nil, nil, nil)
	assert.Error(t, svc.Watch(context.Background()))
}

func TestDatasetService_WatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[[1,1],[1,1]]`), 0o600))

	svc := NewDatasetService(loaders.NewFileSource(path, loaders.FormatAuto),
		domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), nil, nil, zap.NewNop())
	svc.debounce = 10 * time.Millisecond

	first, err := svc.Reload(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Graph.NodeCount())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`[[1,1,1],[1,1,1],[0,1,1],[1,0,0],[0,0,1]]`), 0o600))

	assert.Eventually(t, func() bool {
		current, err := svc.Current()
		return err == nil && current.ID != first.ID && current.Graph.NodeCount() == 2
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestDatasetService_Refresh(t *testing.T) {
	source := &mockSource{}
	source.On("Load", mock.Anything).Return(scenarioMatrix(t), nil)
	svc := NewDatasetService(source, domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), nil, nil, nil)

	assert.Error(t, svc.Refresh(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Refresh(ctx, 10*time.Millisecond) }()

	assert.Eventually(t, svc.Ready, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
