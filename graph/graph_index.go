package graph

import (
	"fmt"
	"math"

	"github.com/backroads-slo/backroads/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"
	"golang.org/x/exp/slog"
)

// *******************************************
// graph index interface
// *******************************************

// IGraphIndex snaps coordinates to the closest graph node by great-circle distance.
//
// Implementations break exact distance ties by the smaller node index, so
// all of them return the same node for the same query.
type IGraphIndex interface {
	GetClosestNode(point geo.Coord) (int32, bool)
	Type() IndexType
}

// NewGraphIndex builds the requested index. INDEX_AUTO uses the quadtree and
// falls back to a linear scan if the quadtree cannot be built.
func NewGraphIndex(g *RoadGraph, typ IndexType) (IGraphIndex, error) {
	switch typ {
	case INDEX_SCAN:
		return NewScanIndex(g), nil
	case INDEX_QUADTREE:
		return NewQuadtreeIndex(g)
	default:
		index, err := NewQuadtreeIndex(g)
		if err != nil {
			slog.Warn("quadtree index unavailable, using linear scan", "error", err)
			return NewScanIndex(g), nil
		}
		return index, nil
	}
}

//*******************************************
// linear scan index
//*******************************************

// ScanIndex computes the haversine distance to every node, O(n) per query.
type ScanIndex struct {
	graph *RoadGraph
}

func NewScanIndex(g *RoadGraph) *ScanIndex {
	return &ScanIndex{graph: g}
}

func (self *ScanIndex) GetClosestNode(point geo.Coord) (int32, bool) {
	closest := int32(-1)
	best_dist := math.Inf(1)
	for i, node := range self.graph.nodes {
		dist := geo.HaversineDistance(point, node.Loc)
		if dist < best_dist {
			best_dist = dist
			closest = int32(i)
		}
	}
	return closest, closest != -1
}

func (self *ScanIndex) Type() IndexType {
	return INDEX_SCAN
}

//*******************************************
// quadtree index
//*******************************************

type _IndexedNode struct {
	loc  orb.Point
	node int32
}

func (self _IndexedNode) Point() orb.Point {
	return self.loc
}

// QuadtreeIndex finds the planar nearest node first, then re-ranks all nodes
// within the great-circle radius of that candidate by haversine distance.
type QuadtreeIndex struct {
	graph *RoadGraph
	tree  *quadtree.Quadtree
}

func NewQuadtreeIndex(g *RoadGraph) (*QuadtreeIndex, error) {
	tree := quadtree.New(g.Bound())
	for i, node := range g.nodes {
		if !node.Loc.IsValid() {
			return nil, &InvalidNodeLocationError{ID: node.ID, Loc: node.Loc}
		}
		if err := tree.Add(_IndexedNode{loc: node.Loc.Point(), node: int32(i)}); err != nil {
			return nil, fmt.Errorf("failed to index node %d: %w", node.ID, err)
		}
	}
	return &QuadtreeIndex{graph: g, tree: tree}, nil
}

func (self *QuadtreeIndex) GetClosestNode(point geo.Coord) (int32, bool) {
	nearest := self.tree.Find(point.Point())
	if nearest == nil {
		return -1, false
	}
	candidate := nearest.(_IndexedNode)
	radius := geo.HaversineDistance(point, self.graph.GetNodeGeom(candidate.node))

	bound, ok := _SearchBound(point, radius)
	if !ok {
		return NewScanIndex(self.graph).GetClosestNode(point)
	}
	closest := candidate.node
	best_dist := radius
	for _, item := range self.tree.InBound(nil, bound) {
		node := item.(_IndexedNode).node
		dist := geo.HaversineDistance(point, self.graph.GetNodeGeom(node))
		if dist < best_dist || (dist == best_dist && node < closest) {
			best_dist = dist
			closest = node
		}
	}
	return closest, true
}

func (self *QuadtreeIndex) Type() IndexType {
	return INDEX_QUADTREE
}

// _SearchBound returns the lat/lon bound containing every point within
// radius meters (great-circle) of center.
//
// Returns false if that area contains a pole or crosses the antimeridian.
func _SearchBound(center geo.Coord, radius float64) (orb.Bound, bool) {
	// pad against rounding in the haversine formula
	angle := (radius*(1+1e-9) + 1e-6) / orb.EarthRadius
	lat := center.Lat() * math.Pi / 180

	min_lat := lat - angle
	max_lat := lat + angle
	if min_lat <= -math.Pi/2 || max_lat >= math.Pi/2 {
		return orb.Bound{}, false
	}
	delta_lon := math.Asin(math.Sin(angle) / math.Cos(lat))
	if math.IsNaN(delta_lon) {
		return orb.Bound{}, false
	}
	min_lon := center.Lon() - delta_lon*180/math.Pi
	max_lon := center.Lon() + delta_lon*180/math.Pi
	if min_lon < -180 || max_lon > 180 {
		return orb.Bound{}, false
	}
	return orb.Bound{
		Min: orb.Point{min_lon, min_lat * 180 / math.Pi},
		Max: orb.Point{max_lon, max_lat * 180 / math.Pi},
	}, true
}

// FindClosestNode snaps point with the given index, NoGraphNodesError for an empty graph.
func FindClosestNode(index IGraphIndex, point geo.Coord) (int32, error) {
	node, ok := index.GetClosestNode(point)
	if !ok {
		return -1, NoGraphNodesError{}
	}
	return node, nil
}
