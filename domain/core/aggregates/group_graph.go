package aggregates

import (
	"srm-backend/domain/core/valueobjects"
)

const (
	// BaseNodeSize is the render weight of a group sharing MinSharedNumbers numbers
	BaseNodeSize = 10

	// MinSharedNumbers is the smallest intersection that forms a group
	MinSharedNumbers = 2
)

// EdgePolicy controls whether overlaps are emitted once or in both directions
type EdgePolicy int

const (
	// EdgesUndirected emits one edge per unordered pair of groups
	EdgesUndirected EdgePolicy = iota
	// EdgesDirected emits source→target and target→source
	EdgesDirected
)

// String returns the string representation
func (p EdgePolicy) String() string {
	if p == EdgesDirected {
		return "directed"
	}
	return "undirected"
}

// GroupNode is a set of shared item numbers and the users sharing them
type GroupNode struct {
	ID      valueobjects.GroupID
	Numbers valueobjects.NumberSet
	Members []string
}

// Size is a rendering hint that grows with the number of shared items
func (n GroupNode) Size() int {
	return BaseNodeSize + n.Numbers.Len() - MinSharedNumbers
}

// GroupEdge connects two groups that share at least one number
type GroupEdge struct {
	Source valueobjects.GroupID
	Target valueobjects.GroupID
	Weight int
}

// Neighbor is an adjacent group and the overlap weight
type Neighbor struct {
	ID     valueobjects.GroupID
	Weight int
}

// GroupGraph is the aggregate produced by group discovery.
// Node order is discovery order and is part of the observable contract.
type GroupGraph struct {
	nodes  []GroupNode
	edges  []GroupEdge
	policy EdgePolicy
	index  map[valueobjects.GroupID]int
}

// NewGroupGraph creates a graph from already-ordered nodes and edges
func NewGroupGraph(nodes []GroupNode, edges []GroupEdge, policy EdgePolicy) *GroupGraph {
	g := &GroupGraph{
		nodes:  make([]GroupNode, len(nodes)),
		edges:  make([]GroupEdge, len(edges)),
		policy: policy,
		index:  make(map[valueobjects.GroupID]int, len(nodes)),
	}
	copy(g.nodes, nodes)
	copy(g.edges, edges)
	for i, n := range g.nodes {
		g.index[n.ID] = i
	}
	return g
}

// EmptyGroupGraph returns a graph with no nodes and no edges
func EmptyGroupGraph(policy EdgePolicy) *GroupGraph {
	return NewGroupGraph(nil, nil, policy)
}

// Nodes returns the nodes in discovery order
func (g *GroupGraph) Nodes() []GroupNode {
	nodes := make([]GroupNode, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Edges returns the edges in emission order
func (g *GroupGraph) Edges() []GroupEdge {
	edges := make([]GroupEdge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Policy returns the edge policy the graph was built with
func (g *GroupGraph) Policy() EdgePolicy {
	return g.policy
}

// NodeCount returns the number of groups
func (g *GroupGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *GroupGraph) EdgeCount() int {
	return len(g.edges)
}

// IsEmpty reports whether no group was discovered
func (g *GroupGraph) IsEmpty() bool {
	return len(g.nodes) == 0
}

// Node looks up a group by id
func (g *GroupGraph) Node(id valueobjects.GroupID) (GroupNode, bool) {
	i, ok := g.index[id]
	if !ok {
		return GroupNode{}, false
	}
	return g.nodes[i], true
}

// Position returns the discovery position of a group, or -1
func (g *GroupGraph) Position(id valueobjects.GroupID) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Neighbors returns the groups adjacent to id in discovery order
func (g *GroupGraph) Neighbors(id valueobjects.GroupID) []Neighbor {
	weights := make(map[valueobjects.GroupID]int)
	for _, e := range g.edges {
		switch id {
		case e.Source:
			weights[e.Target] = e.Weight
		case e.Target:
			weights[e.Source] = e.Weight
		}
	}

	neighbors := make([]Neighbor, 0, len(weights))
	for _, n := range g.nodes {
		if w, ok := weights[n.ID]; ok {
			neighbors = append(neighbors, Neighbor{ID: n.ID, Weight: w})
		}
	}
	return neighbors
}

// Subgraph keeps the nodes accepted by keep and the edges between them
func (g *GroupGraph) Subgraph(keep func(GroupNode) bool) *GroupGraph {
	nodes := make([]GroupNode, 0, len(g.nodes))
	visible := make(map[valueobjects.GroupID]bool, len(g.nodes))
	for _, n := range g.nodes {
		if keep(n) {
			nodes = append(nodes, n)
			visible[n.ID] = true
		}
	}

	edges := make([]GroupEdge, 0, len(g.edges))
	for _, e := range g.edges {
		if visible[e.Source] && visible[e.Target] {
			edges = append(edges, e)
		}
	}
	return NewGroupGraph(nodes, edges, g.policy)
}

// Clusters returns the connected components, each in discovery order
func (g *GroupGraph) Clusters() [][]valueobjects.GroupID {
	adjacency := make(map[valueobjects.GroupID][]valueobjects.GroupID, len(g.nodes))
	for _, e := range g.edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		adjacency[e.Target] = append(adjacency[e.Target], e.Source)
	}

	visited := make(map[valueobjects.GroupID]bool, len(g.nodes))
	var clusters [][]valueobjects.GroupID
	for _, n := range g.nodes {
		if visited[n.ID] {
			continue
		}
		members := g.dfs(n.ID, adjacency, visited)
		clusters = append(clusters, g.inDiscoveryOrder(members))
	}
	return clusters
}

func (g *GroupGraph) dfs(
	start valueobjects.GroupID,
	adjacency map[valueobjects.GroupID][]valueobjects.GroupID,
	visited map[valueobjects.GroupID]bool,
) map[valueobjects.GroupID]bool {
	members := map[valueobjects.GroupID]bool{}
	stack := []valueobjects.GroupID{start}
	visited[start] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		members[id] = true
		for _, next := range adjacency[id] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return members
}

func (g *GroupGraph) inDiscoveryOrder(members map[valueobjects.GroupID]bool) []valueobjects.GroupID {
	ordered := make([]valueobjects.GroupID, 0, len(members))
	for _, n := range g.nodes {
		if members[n.ID] {
			ordered = append(ordered, n.ID)
		}
	}
	return ordered
}

// Density is the share of possible edges present under the graph's policy
func (g *GroupGraph) Density() float64 {
	n := len(g.nodes)
	if n < 2 {
		return 0
	}
	maxEdges := n * (n - 1)
	if g.policy == EdgesUndirected {
		maxEdges /= 2
	}
	return float64(len(g.edges)) / float64(maxEdges)
}

// MaxNumber returns the largest item number held by any group
func (g *GroupGraph) MaxNumber() int {
	highest := 0
	for _, n := range g.nodes {
		if m := n.Numbers.Max(); m > highest {
			highest = m
		}
	}
	return highest
}
