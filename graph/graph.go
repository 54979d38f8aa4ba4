package graph

import (
	"fmt"

	"github.com/backroads-slo/backroads/attr"
	"github.com/backroads-slo/backroads/geo"
	. "github.com/backroads-slo/backroads/util"
	"github.com/paulmach/orb"
)

//*******************************************
// road graph
//*******************************************

// RoadGraph is a directed multigraph of road segments.
//
// Nodes are addressed by a dense int32 index, the OSM id is kept on the node.
// Parallel edges between the same pair of nodes are allowed.
//
// Not thread safe. AnnotateTravelTime mutates the edges in place, callers
// sharing a graph between goroutines have to synchronize themselves.
type RoadGraph struct {
	nodes        List[Node]
	edges        List[Edge]
	fwd_edges    List[List[int32]]
	bwd_edges    List[List[int32]]
	node_mapping Dict[int64, int32]

	annotated bool
	index     IGraphIndex
}

func NewRoadGraph() *RoadGraph {
	return &RoadGraph{
		nodes:        NewList[Node](100),
		edges:        NewList[Edge](100),
		fwd_edges:    NewList[List[int32]](100),
		bwd_edges:    NewList[List[int32]](100),
		node_mapping: NewDict[int64, int32](100),
	}
}

// AddNode adds a node and returns its index.
func (self *RoadGraph) AddNode(id int64, loc geo.Coord) (int32, error) {
	if self.node_mapping.ContainsKey(id) {
		return -1, fmt.Errorf("duplicate node %d", id)
	}
	index := int32(self.nodes.Length())
	self.nodes.Add(Node{ID: id, Loc: loc})
	self.fwd_edges.Add(nil)
	self.bwd_edges.Add(nil)
	self.node_mapping.Set(id, index)
	self.index = nil
	return index, nil
}

// AddEdge adds a directed edge between two existing nodes (by OSM id).
//
// Adding an edge invalidates previously computed travel times.
func (self *RoadGraph) AddEdge(from, to int64, attribs attr.EdgeAttribs, geometry geo.CoordArray) (int32, error) {
	node_a, ok := self.node_mapping[from]
	if !ok {
		return -1, fmt.Errorf("unknown node %d", from)
	}
	node_b, ok := self.node_mapping[to]
	if !ok {
		return -1, fmt.Errorf("unknown node %d", to)
	}
	id := int32(self.edges.Length())
	self.edges.Add(Edge{
		NodeA:       node_a,
		NodeB:       node_b,
		EdgeAttribs: attribs,
		Geometry:    geometry,
	})
	fwd := self.fwd_edges[node_a]
	fwd.Add(id)
	self.fwd_edges[node_a] = fwd
	bwd := self.bwd_edges[node_b]
	bwd.Add(id)
	self.bwd_edges[node_b] = bwd
	self.annotated = false
	return id, nil
}

func (self *RoadGraph) NodeCount() int {
	return self.nodes.Length()
}
func (self *RoadGraph) EdgeCount() int {
	return self.edges.Length()
}
func (self *RoadGraph) IsNode(node int32) bool {
	return node >= 0 && int(node) < self.nodes.Length()
}
func (self *RoadGraph) GetNode(node int32) Node {
	return self.nodes[node]
}
func (self *RoadGraph) GetEdge(edge int32) Edge {
	return self.edges[edge]
}
func (self *RoadGraph) GetNodeIndex(id int64) (int32, bool) {
	index, ok := self.node_mapping[id]
	return index, ok
}
func (self *RoadGraph) GetNodeGeom(node int32) geo.Coord {
	return self.nodes[node].Loc
}

// GetEdgeGeom falls back to the straight line between both nodes.
func (self *RoadGraph) GetEdgeGeom(edge int32) geo.CoordArray {
	e := self.edges[edge]
	if len(e.Geometry) >= 2 {
		return e.Geometry
	}
	return geo.CoordArray{self.GetNodeGeom(e.NodeA), self.GetNodeGeom(e.NodeB)}
}

// Bound of all node locations, empty bound for an empty graph.
func (self *RoadGraph) Bound() orb.Bound {
	if self.nodes.Length() == 0 {
		return orb.Bound{}
	}
	bound := self.nodes[0].Loc.Point().Bound()
	for _, node := range self.nodes {
		bound = bound.Extend(node.Loc.Point())
	}
	return bound
}

// ForAdjacentEdges calls the callback for every outgoing (FORWARD) or ingoing (BACKWARD) edge.
func (self *RoadGraph) ForAdjacentEdges(node int32, direction Direction, callback func(EdgeRef)) {
	if direction == FORWARD {
		for _, edge_id := range self.fwd_edges[node] {
			callback(EdgeRef{EdgeID: edge_id, OtherID: self.edges[edge_id].NodeB})
		}
	} else {
		for _, edge_id := range self.bwd_edges[node] {
			callback(EdgeRef{EdgeID: edge_id, OtherID: self.edges[edge_id].NodeA})
		}
	}
}

// GetEdgeWeight returns the travel time of the edge in seconds.
func (self *RoadGraph) GetEdgeWeight(edge EdgeRef) float64 {
	return self.edges[edge.EdgeID].TravelTime
}

// IsAnnotated reports whether every edge carries a travel time.
func (self *RoadGraph) IsAnnotated() bool {
	return self.annotated
}

// GetIndex returns the cached spatial index, nil if none was set or nodes were added since.
func (self *RoadGraph) GetIndex() IGraphIndex {
	return self.index
}
func (self *RoadGraph) SetIndex(index IGraphIndex) {
	self.index = index
}
