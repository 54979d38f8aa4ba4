package graph

import (
	"fmt"

	. "github.com/backroads-slo/backroads/util"
)

//*******************************************
// connected components
//*******************************************

// ConnectedComponents assigns every node the id of its weakly connected component.
func ConnectedComponents(g *RoadGraph) Array[int32] {
	groups := NewArray[int32](g.NodeCount())
	for i := range groups {
		groups[i] = -1
	}
	stack := NewList[int32](100)
	group := int32(0)
	for i := 0; i < g.NodeCount(); i++ {
		if groups[i] != -1 {
			continue
		}
		groups[i] = group
		stack.Add(int32(i))
		for stack.Length() > 0 {
			curr := stack[stack.Length()-1]
			stack = stack[:stack.Length()-1]
			visit := func(ref EdgeRef) {
				if groups[ref.OtherID] != -1 {
					return
				}
				groups[ref.OtherID] = group
				stack.Add(ref.OtherID)
			}
			g.ForAdjacentEdges(curr, FORWARD, visit)
			g.ForAdjacentEdges(curr, BACKWARD, visit)
		}
		group += 1
	}
	return groups
}

func GetMostCommon[T comparable](arr Array[T]) T {
	var max_val T
	max_count := 0
	counts := NewDict[T, int](10)
	for i := 0; i < arr.Length(); i++ {
		val := arr[i]
		count := counts[val]
		count += 1
		if count > max_count {
			max_count = count
			max_val = val
		}
		counts[val] = count
	}
	return max_val
}

// LargestComponent returns a copy of g reduced to its largest weakly
// connected component. Travel times and the spatial index are not copied.
func LargestComponent(g *RoadGraph) (*RoadGraph, error) {
	if g.NodeCount() == 0 {
		return NewRoadGraph(), nil
	}
	groups := ConnectedComponents(g)
	max_group := GetMostCommon(groups)

	sub := NewRoadGraph()
	for i, node := range g.nodes {
		if groups[i] != max_group {
			continue
		}
		if _, err := sub.AddNode(node.ID, node.Loc); err != nil {
			return nil, fmt.Errorf("failed to copy component: %w", err)
		}
	}
	for _, edge := range g.edges {
		if groups[edge.NodeA] != max_group {
			continue
		}
		if _, err := sub.AddEdge(g.nodes[edge.NodeA].ID, g.nodes[edge.NodeB].ID, edge.EdgeAttribs, edge.Geometry); err != nil {
			return nil, fmt.Errorf("failed to copy component: %w", err)
		}
	}
	return sub, nil
}
