package routing

import (
	"fmt"
	"math"

	"github.com/backroads-slo/backroads/graph"
	. "github.com/backroads-slo/backroads/util"
	"golang.org/x/exp/slog"
)

type flag_d struct {
	path_length float64
	ref         graph.EdgeRef
	visited     bool
}

// Dijkstra searches the path with the smallest summed travel time.
type Dijkstra struct {
	heap     PriorityQueue[int32, float64]
	start_id int32
	end_id   int32
	graph    *graph.RoadGraph
	flags    []flag_d
}

func NewDijkstra(g *graph.RoadGraph, start, end int32) *Dijkstra {
	d := Dijkstra{graph: g, start_id: start, end_id: end}

	flags := make([]flag_d, g.NodeCount())
	for i := 0; i < len(flags); i++ {
		flags[i].path_length = math.Inf(1)
		flags[i].ref = graph.EdgeRef{EdgeID: -1, OtherID: -1}
	}
	flags[start].path_length = 0
	d.flags = flags

	heap := NewPriorityQueue[int32, float64](100)
	heap.Enqueue(d.start_id, 0)
	d.heap = heap

	return &d
}

func (self *Dijkstra) CalcShortestPath() bool {
	for {
		curr_id, ok := self.heap.Dequeue()
		if !ok {
			return false
		}
		if curr_id == self.end_id {
			return true
		}
		curr_flag := self.flags[curr_id]
		if curr_flag.visited {
			continue
		}
		curr_flag.visited = true
		self.flags[curr_id] = curr_flag
		self.graph.ForAdjacentEdges(curr_id, graph.FORWARD, func(ref graph.EdgeRef) {
			other_id := ref.OtherID
			other_flag := self.flags[other_id]
			if other_flag.visited {
				return
			}
			new_length := curr_flag.path_length + self.graph.GetEdgeWeight(ref)
			// strict comparison keeps the cheapest of parallel edges
			if other_flag.path_length > new_length {
				other_flag.ref = ref
				other_flag.path_length = new_length
				self.heap.Enqueue(other_id, new_length)
			}
			self.flags[other_id] = other_flag
		})
	}
}

func (self *Dijkstra) GetShortestPath() Path {
	edges := make([]int32, 0, 10)
	nodes := make([]int32, 0, 10)
	curr_id := self.end_id
	nodes = append(nodes, curr_id)
	for curr_id != self.start_id {
		ref := self.flags[curr_id].ref
		edges = append(edges, ref.EdgeID)
		curr_id = self.graph.GetEdge(ref.EdgeID).NodeA
		nodes = append(nodes, curr_id)
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return Path{
		Nodes:      nodes,
		Edges:      edges,
		TravelTime: self.flags[self.end_id].path_length,
	}
}

// CalcFastestPath runs Dijkstra between two node indices.
//
// An unannotated graph is annotated with the default weighting first.
// Returns *NoPathFoundError if end is not reachable from start.
func CalcFastestPath(g *graph.RoadGraph, start, end int32) (Path, error) {
	if !g.IsNode(start) || !g.IsNode(end) {
		return Path{}, fmt.Errorf("node index out of range: %d, %d", start, end)
	}
	if !g.IsAnnotated() {
		graph.AnnotateTravelTime(g, graph.DefaultWeightingOptions())
	}
	if start == end {
		return Path{Nodes: []int32{start}, Edges: []int32{}, TravelTime: 0}, nil
	}

	var alg IShortestPath = NewDijkstra(g, start, end)
	if !alg.CalcShortestPath() {
		slog.Debug("routing failed", "from", g.GetNode(start).ID, "to", g.GetNode(end).ID)
		return Path{}, &NoPathFoundError{From: g.GetNode(start).ID, To: g.GetNode(end).ID}
	}
	return alg.GetShortestPath(), nil
}
