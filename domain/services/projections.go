package services

import (
	"srm-backend/domain/core/aggregates"
	"srm-backend/domain/core/valueobjects"
)

// DefaultMaxNumber is the item-number range the number grid shows
const DefaultMaxNumber = 100

// HeatmapCell marks that a group holds a number
type HeatmapCell struct {
	Group  valueobjects.GroupID `json:"group"`
	Number int                  `json:"number"`
	Value  int                  `json:"value"`
}

// Heatmap is a group × number grid
type Heatmap struct {
	Groups  []valueobjects.GroupID `json:"groups"`
	Numbers []int                  `json:"numbers"`
	Cells   []HeatmapCell          `json:"cells"`
}

// BuildHeatmap projects a graph onto a group × number grid. The number axis
// runs from 1 to maxNumber, widened to cover every number a group holds.
func BuildHeatmap(graph *aggregates.GroupGraph, maxNumber int) Heatmap {
	if maxNumber <= 0 {
		maxNumber = DefaultMaxNumber
	}
	if m := graph.MaxNumber(); m > maxNumber {
		maxNumber = m
	}

	heatmap := Heatmap{
		Groups:  make([]valueobjects.GroupID, 0, graph.NodeCount()),
		Numbers: make([]int, maxNumber),
		Cells:   make([]HeatmapCell, 0),
	}
	for i := range heatmap.Numbers {
		heatmap.Numbers[i] = i + 1
	}
	for _, node := range graph.Nodes() {
		heatmap.Groups = append(heatmap.Groups, node.ID)
		for _, n := range node.Numbers.Values() {
			heatmap.Cells = append(heatmap.Cells, HeatmapCell{Group: node.ID, Number: n, Value: 1})
		}
	}
	return heatmap
}

// EulerArea is a set or an overlap region of an Euler diagram
type EulerArea struct {
	Sets []valueobjects.GroupID `json:"sets"`
	Size int                    `json:"size"`
}

// EulerDiagram lists single-group areas and pairwise overlaps
type EulerDiagram struct {
	Sets     []EulerArea `json:"sets"`
	Overlaps []EulerArea `json:"overlaps"`
}

// BuildEuler projects a graph onto Euler/Venn areas. Each unordered pair
// appears once in Overlaps whatever the graph's edge policy.
func BuildEuler(graph *aggregates.GroupGraph) EulerDiagram {
	diagram := EulerDiagram{
		Sets:     make([]EulerArea, 0, graph.NodeCount()),
		Overlaps: make([]EulerArea, 0),
	}
	for _, node := range graph.Nodes() {
		diagram.Sets = append(diagram.Sets, EulerArea{
			Sets: []valueobjects.GroupID{node.ID},
			Size: node.Numbers.Len(),
		})
	}
	for _, edge := range graph.Edges() {
		if graph.Position(edge.Source) > graph.Position(edge.Target) {
			continue
		}
		diagram.Overlaps = append(diagram.Overlaps, EulerArea{
			Sets: []valueobjects.GroupID{edge.Source, edge.Target},
			Size: edge.Weight,
		})
	}
	return diagram
}
