package handlers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"srm-backend/application/queries"
	"srm-backend/application/queries/bus"
	"srm-backend/application/queries/handlers"
	appservices "srm-backend/application/services"
	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
	domainservices "srm-backend/domain/services"
	pkgerrors "srm-backend/pkg/errors"
)

type staticSource struct {
	matrix *valueobjects.BinaryMatrix
}

func (s staticSource) Load(context.Context) (*valueobjects.BinaryMatrix, error) {
	return s.matrix, nil
}

func (s staticSource) Describe() string {
	return "static"
}

// scenario: A={1,2,4}, B={1,2,3}, C={1,2,3,5}
func setup(t *testing.T, load bool) (*bus.QueryBus, *appservices.DatasetService) {
	t.Helper()
	matrix, err := valueobjects.NewBinaryMatrix([][]int{
		{1, 1, 1},
		{1, 1, 1},
		{0, 1, 1},
		{1, 0, 0},
		{0, 0, 1},
	}, []string{"A", "B", "C"})
	require.NoError(t, err)

	dataset := appservices.NewDatasetService(staticSource{matrix: matrix},
		domainservices.NewGroupDiscovery(aggregates.EdgesUndirected), nil, nil, zap.NewNop())
	if load {
		_, err = dataset.Reload(context.Background())
		require.NoError(t, err)
	}

	b := bus.NewQueryBus()
	require.NoError(t, handlers.RegisterAll(b, dataset, 100, zap.NewNop()))
	return b, dataset
}

func TestGetGraphData(t *testing.T) {
	// Arrange
	b, dataset := setup(t, true)
	snapshot, err := dataset.Current()
	require.NoError(t, err)

	// Act
	result, err := b.Ask(context.Background(), queries.GetGraphDataQuery{})

	// Assert
	require.NoError(t, err)
	data := result.(*queries.GetGraphDataResult)
	assert.Equal(t, snapshot.ID.String(), data.SnapshotID)
	assert.Equal(t, []queries.GraphNode{
		{ID: "Group 1", Numbers: []int{1, 2}, Size: 10},
		{ID: "Group 2", Numbers: []int{1, 2, 3}, Size: 11},
	}, data.Nodes)
	assert.Equal(t, []queries.GraphEdge{
		{Source: "Group 1", Target: "Group 2", Weight: 2},
	}, data.Edges)
	assert.Equal(t, queries.GraphStats{NodeCount: 2, EdgeCount: 1, ClusterCount: 1, Density: 1}, data.Stats)
}

func TestGetGraphData_DirectedOverride(t *testing.T) {
	b, _ := setup(t, true)
	directed := true

	result, err := b.Ask(context.Background(), queries.GetGraphDataQuery{Directed: &directed})

	require.NoError(t, err)
	data := result.(*queries.GetGraphDataResult)
	assert.True(t, data.Stats.Directed)
	assert.Equal(t, []queries.GraphEdge{
		{Source: "Group 1", Target: "Group 2", Weight: 2},
		{Source: "Group 2", Target: "Group 1", Weight: 2},
	}, data.Edges)
}

func TestGetGraphData_Filtered(t *testing.T) {
	b, _ := setup(t, true)

	result, err := b.Ask(context.Background(), queries.GetGraphDataQuery{
		Filter: queries.GroupFilter{MinNumbers: 3},
	})
	require.NoError(t, err)
	data := result.(*queries.GetGraphDataResult)
	require.Len(t, data.Nodes, 1)
	assert.Equal(t, "Group 2", data.Nodes[0].ID)
	assert.Empty(t, data.Edges)
}

func TestGetGraphData_InvalidFilter(t *testing.T) {
	b, _ := setup(t, true)

	tests := []struct {
		name   string
		filter queries.GroupFilter
	}{
		{"negative min", queries.GroupFilter{MinNumbers: -1}},
		{"max below min", queries.GroupFilter{MinNumbers: 4, MaxNumbers: 2}},
		{"zero number", queries.GroupFilter{Numbers: []int{0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Ask(context.Background(), queries.GetGraphDataQuery{Filter: tt.filter})
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestGetGraphData_NotLoaded(t *testing.T) {
	b, _ := setup(t, false)

	_, err := b.Ask(context.Background(), queries.GetGraphDataQuery{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
}

func TestGetHeatmap(t *testing.T) {
	b, _ := setup(t, true)

	result, err := b.Ask(context.Background(), queries.GetHeatmapQuery{})
	require.NoError(t, err)
	heatmap := result.(*domainservices.Heatmap)
	assert.Equal(t, []valueobjects.GroupID{"Group 1", "Group 2"}, heatmap.Groups)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, heatmap.Numbers)
	assert.Len(t, heatmap.Cells, 5)
}

func TestGetEuler(t *testing.T) {
	b, _ := setup(t, true)

	result, err := b.Ask(context.Background(), queries.GetEulerQuery{})
	require.NoError(t, err)
	diagram := result.(*domainservices.EulerDiagram)
	assert.Equal(t, []domainservices.EulerArea{
		{Sets: []valueobjects.GroupID{"Group 1"}, Size: 2},
		{Sets: []valueobjects.GroupID{"Group 2"}, Size: 3},
	}, diagram.Sets)
	assert.Equal(t, []domainservices.EulerArea{
		{Sets: []valueobjects.GroupID{"Group 1", "Group 2"}, Size: 2},
	}, diagram.Overlaps)
}

func TestGetGroup(t *testing.T) {
	b, _ := setup(t, true)

	result, err := b.Ask(context.Background(), queries.GetGroupQuery{GroupID: "Group 1"})
	require.NoError(t, err)
	assert.Equal(t, &queries.GroupDetail{
		ID:        "Group 1",
		Numbers:   []int{1, 2},
		Size:      10,
		Members:   []string{"A", "B", "C"},
		Neighbors: []queries.NeighborView{{ID: "Group 2", Weight: 2}},
	}, result)

	result, err = b.Ask(context.Background(), queries.GetGroupQuery{GroupID: "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, result.(*queries.GroupDetail).Members)
}

func TestGetGroup_Errors(t *testing.T) {
	b, _ := setup(t, true)

	_, err := b.Ask(context.Background(), queries.GetGroupQuery{GroupID: "Group 9"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, pkgerrors.CodeGroupNotFound, pkgerrors.GetAppError(err).Code)

	_, err = b.Ask(context.Background(), queries.GetGroupQuery{GroupID: "cluster"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = b.Ask(context.Background(), queries.GetGroupQuery{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestTransformMatrix(t *testing.T) {
	b, _ := setup(t, false)

	result, err := b.Ask(context.Background(), queries.TransformMatrixQuery{
		Rows:     [][]int{{1, 1, 1}, {1, 1, 1}, {0, 1, 1}, {1, 0, 0}, {0, 0, 1}},
		Directed: true,
	})
	require.NoError(t, err)
	data := result.(*queries.GetGraphDataResult)
	assert.Len(t, data.Nodes, 2)
	assert.Equal(t, []queries.GraphEdge{
		{Source: "Group 1", Target: "Group 2", Weight: 2},
		{Source: "Group 2", Target: "Group 1", Weight: 2},
	}, data.Edges)
	assert.True(t, data.Stats.Directed)
}

func TestTransformMatrix_EmptyMatrix(t *testing.T) {
	b, _ := setup(t, false)

	result, err := b.Ask(context.Background(), queries.TransformMatrixQuery{Rows: [][]int{}})
	require.NoError(t, err)
	data := result.(*queries.GetGraphDataResult)
	assert.Empty(t, data.Nodes)
	assert.Empty(t, data.Edges)
}

func TestTransformMatrix_InvalidMatrix(t *testing.T) {
	b, _ := setup(t, false)

	_, err := b.Ask(context.Background(), queries.TransformMatrixQuery{Rows: [][]int{{1, 0}, {1, 2}}})
	require.Error(t, err)

	appErr := pkgerrors.Normalize(err)
	assert.Equal(t, pkgerrors.CodeInvalidMatrix, appErr.Code)
	assert.Equal(t, 2, appErr.Details["row"])
	assert.Equal(t, 2, appErr.Details["column"])

	_, err = b.Ask(context.Background(), queries.TransformMatrixQuery{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGetDatasetInfo(t *testing.T) {
	b, dataset := setup(t, true)
	snapshot, err := dataset.Current()
	require.NoError(t, err)

	result, err := b.Ask(context.Background(), queries.GetDatasetInfoQuery{})
	require.NoError(t, err)
	info := result.(*queries.DatasetInfo)
	assert.Equal(t, snapshot.ID.String(), info.SnapshotID)
	assert.Equal(t, "static", info.Source)
	assert.Equal(t, 5, info.Items)
	assert.Equal(t, []string{"A", "B", "C"}, info.Users)
	assert.Equal(t, 2, info.Groups)
	assert.Equal(t, 1, info.Overlaps)
	assert.Equal(t, "undirected", info.EdgePolicy)
}
