package routing

import (
	"github.com/backroads-slo/backroads/geo"
	"github.com/backroads-slo/backroads/graph"
)

type IShortestPath interface {
	CalcShortestPath() bool
	GetShortestPath() Path
}

//*******************************************
// path
//*******************************************

// Path is an ordered walk through the graph, Nodes holds one more entry than Edges.
type Path struct {
	Nodes []int32
	Edges []int32
	// seconds
	TravelTime float64
}

// Length in meters.
func (self Path) Length(g *graph.RoadGraph) float64 {
	length := 0.0
	for _, edge := range self.Edges {
		length += g.GetEdge(edge).Length
	}
	return length
}

// Geometry joins the edge geometries, a path without edges is its single node.
func (self Path) Geometry(g *graph.RoadGraph) geo.CoordArray {
	if len(self.Edges) == 0 {
		coords := make(geo.CoordArray, 0, len(self.Nodes))
		for _, node := range self.Nodes {
			coords = append(coords, g.GetNodeGeom(node))
		}
		return coords
	}
	coords := make(geo.CoordArray, 0, len(self.Edges)+1)
	for _, edge := range self.Edges {
		line := g.GetEdgeGeom(edge)
		if len(coords) > 0 {
			line = line[1:]
		}
		coords = append(coords, line...)
	}
	return coords
}

// NodeIDs returns the OSM ids of the path nodes.
func (self Path) NodeIDs(g *graph.RoadGraph) []int64 {
	ids := make([]int64, len(self.Nodes))
	for i, node := range self.Nodes {
		ids[i] = g.GetNode(node).ID
	}
	return ids
}
