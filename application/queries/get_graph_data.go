package queries

import (
	"srm-backend/domain/core/aggregates"
)

// GetGraphDataQuery asks for the group graph of the loaded dataset.
// Directed overrides the dataset's edge policy when set.
type GetGraphDataQuery struct {
	Filter   GroupFilter `json:"filter"`
	Directed *bool       `json:"directed,omitempty"`
}

// Validate validates the query
func (q GetGraphDataQuery) Validate() error {
	return q.Filter.validate()
}

// GetGraphDataResult is the graph in renderer form
type GetGraphDataResult struct {
	SnapshotID string      `json:"snapshot_id,omitempty"`
	Nodes      []GraphNode `json:"nodes"`
	Edges      []GraphEdge `json:"edges"`
	Stats      GraphStats  `json:"stats"`
}

// GraphNode is a group as the renderer sees it
type GraphNode struct {
	ID      string `json:"id"`
	Numbers []int  `json:"numbers"`
	Size    int    `json:"size"`
}

// GraphEdge is an overlap between two groups
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// GraphStats contains graph statistics
type GraphStats struct {
	NodeCount    int     `json:"node_count"`
	EdgeCount    int     `json:"edge_count"`
	ClusterCount int     `json:"cluster_count"`
	Density      float64 `json:"density"`
	Directed     bool    `json:"directed"`
}

// NewGraphDataResult converts a graph aggregate into its renderer form
func NewGraphDataResult(graph *aggregates.GroupGraph) *GetGraphDataResult {
	result := &GetGraphDataResult{
		Nodes: make([]GraphNode, 0, graph.NodeCount()),
		Edges: make([]GraphEdge, 0, graph.EdgeCount()),
		Stats: GraphStats{
			NodeCount:    graph.NodeCount(),
			EdgeCount:    graph.EdgeCount(),
			ClusterCount: len(graph.Clusters()),
			Density:      graph.Density(),
			Directed:     graph.Policy() == aggregates.EdgesDirected,
		},
	}

	for _, node := range graph.Nodes() {
		result.Nodes = append(result.Nodes, GraphNode{
			ID:      node.ID.String(),
			Numbers: node.Numbers.Values(),
			Size:    node.Size(),
		})
	}
	for _, edge := range graph.Edges() {
		result.Edges = append(result.Edges, GraphEdge{
			Source: edge.Source.String(),
			Target: edge.Target.String(),
			Weight: edge.Weight,
		})
	}
	return result
}
