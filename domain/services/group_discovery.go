// Package services holds the pure domain computations over membership matrices.
package services

import (
	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
)

// GroupDiscovery turns a membership matrix into a graph of shared-number groups.
// It holds no mutable state and is safe for concurrent use.
type GroupDiscovery struct {
	policy aggregates.EdgePolicy
}

// NewGroupDiscovery creates a new group discovery service
func NewGroupDiscovery(policy aggregates.EdgePolicy) *GroupDiscovery {
	return &GroupDiscovery{policy: policy}
}

// Policy returns the edge policy used for emitted graphs
func (d *GroupDiscovery) Policy() aggregates.EdgePolicy {
	return d.policy
}

// TransformRows validates raw 0/1 rows and runs Transform on them
func (d *GroupDiscovery) TransformRows(rows [][]int, users []string) (*aggregates.GroupGraph, error) {
	matrix, err := valueobjects.NewBinaryMatrix(rows, users)
	if err != nil {
		return nil, err
	}
	return d.Transform(matrix)
}

// Transform discovers every group of users sharing at least two numbers and
// links groups whose number sets overlap.
func (d *GroupDiscovery) Transform(matrix *valueobjects.BinaryMatrix) (*aggregates.GroupGraph, error) {
	if matrix == nil {
		return nil, valueobjects.NewInvalidMatrixError(0, 0, "matrix is nil")
	}
	if matrix.IsEmpty() {
		return aggregates.EmptyGroupGraph(d.policy), nil
	}

	nodes := discoverGroups(matrix)
	return aggregates.NewGroupGraph(nodes, d.linkGroups(nodes), d.policy), nil
}

type commonGroup struct {
	numbers valueobjects.NumberSet
	members []string
	seen    map[string]bool
}

func (g *commonGroup) add(user string) {
	if !g.seen[user] {
		g.seen[user] = true
		g.members = append(g.members, user)
	}
}

// discoverGroups walks user pairs in column order. Intersections are
// symmetric, so visiting (i, j) with i < j creates keys in the same order
// as visiting every ordered pair.
func discoverGroups(matrix *valueobjects.BinaryMatrix) []aggregates.GroupNode {
	users := matrix.Users()
	collections := make([]valueobjects.NumberSet, len(users))
	for c := range users {
		collections[c] = matrix.Collection(c)
	}

	var ordered []*commonGroup
	byKey := make(map[string]*commonGroup)
	for i := range users {
		if collections[i].Len() < aggregates.MinSharedNumbers {
			continue
		}
		for j := i + 1; j < len(users); j++ {
			shared := collections[i].Intersect(collections[j])
			if shared.Len() < aggregates.MinSharedNumbers {
				continue
			}

			key := shared.Key()
			group, ok := byKey[key]
			if !ok {
				group = &commonGroup{numbers: shared, seen: make(map[string]bool)}
				byKey[key] = group
				ordered = append(ordered, group)
			}
			group.add(users[i])
			group.add(users[j])
		}
	}

	nodes := make([]aggregates.GroupNode, len(ordered))
	for i, group := range ordered {
		nodes[i] = aggregates.GroupNode{
			ID:      valueobjects.NewGroupID(i + 1),
			Numbers: group.numbers,
			Members: group.members,
		}
	}
	return nodes
}

func (d *GroupDiscovery) linkGroups(nodes []aggregates.GroupNode) []aggregates.GroupEdge {
	edges := make([]aggregates.GroupEdge, 0)
	for a := range nodes {
		for b := range nodes {
			if a == b || (d.policy == aggregates.EdgesUndirected && b < a) {
				continue
			}
			weight := nodes[a].Numbers.IntersectionSize(nodes[b].Numbers)
			if weight == 0 {
				continue
			}
			edges = append(edges, aggregates.GroupEdge{
				Source: nodes[a].ID,
				Target: nodes[b].ID,
				Weight: weight,
			})
		}
	}
	return edges
}
