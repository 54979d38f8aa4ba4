package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/backroads-slo/backroads/geo"
	"github.com/backroads-slo/backroads/graph"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

//*******************************************
// planner interfaces
//*******************************************

// IGraphProvider loads the road graph used when no graph is passed to the planner.
type IGraphProvider interface {
	GetGraph(ctx context.Context) (*graph.RoadGraph, error)
}

// INodeLocator can be implemented by a provider that builds its own spatial index.
type INodeLocator interface {
	NewGraphIndex(g *graph.RoadGraph) (graph.IGraphIndex, error)
}

//*******************************************
// planner
//*******************************************

type PlannerOptions struct {
	Weighting graph.WeightingOptions
	// meters, snapping further away fails, 0 disables the check
	MaxSnapDistance float64
	Index           graph.IndexType
}

func DefaultPlannerOptions() PlannerOptions {
	return PlannerOptions{
		Weighting: graph.DefaultWeightingOptions(),
		Index:     graph.INDEX_AUTO,
	}
}

// Planner answers fastest route queries. It holds no per-query state and
// can be reused, but a graph passed to it must not be used concurrently.
type Planner struct {
	provider IGraphProvider
	options  PlannerOptions
}

// NewPlanner creates a planner, provider may be nil if every query passes its own graph.
func NewPlanner(provider IGraphProvider, options PlannerOptions) *Planner {
	return &Planner{
		provider: provider,
		options:  options,
	}
}

// FindFastestRoute snaps origin and destination to their nearest graph nodes
// and returns the route with the smallest travel time between them.
//
// If g is nil the graph is requested from the provider. Unannotated graphs
// get their travel times computed first.
//
// Errors are *InvalidCoordinateError (also wrapping graph.NoGraphNodesError
// for empty graphs), *NoPathFoundError, *graph.InvalidNodeLocationError if
// INDEX_QUADTREE is requested for a graph with an invalid node location, or
// errors from the provider.
func (self *Planner) FindFastestRoute(ctx context.Context, origin, destination geo.Coord, g *graph.RoadGraph) (RouteResult, error) {
	logger := slog.With("query", uuid.New().String())
	logger.Debug(fmt.Sprintf("start calculating fastest route between %v and %v", origin, destination))

	if err := _ValidateCoord("origin", origin); err != nil {
		return RouteResult{}, err
	}
	if err := _ValidateCoord("destination", destination); err != nil {
		return RouteResult{}, err
	}

	if g == nil {
		if self.provider == nil {
			return RouteResult{}, errors.New("no graph given and no graph provider configured")
		}
		var err error
		g, err = self.provider.GetGraph(ctx)
		if err != nil {
			return RouteResult{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return RouteResult{}, err
	}
	if !g.IsAnnotated() {
		graph.AnnotateTravelTime(g, self.options.Weighting)
		logger.Debug("annotated travel times", "edges", g.EdgeCount())
	}

	index, err := self._GetIndex(g)
	if err != nil {
		return RouteResult{}, err
	}
	start, err := self._Snap("origin", origin, index, g)
	if err != nil {
		return RouteResult{}, err
	}
	end, err := self._Snap("destination", destination, index, g)
	if err != nil {
		return RouteResult{}, err
	}
	logger.Debug("snapped coordinates", "start", g.GetNode(start).ID, "end", g.GetNode(end).ID)

	path, err := CalcFastestPath(g, start, end)
	if err != nil {
		logger.Debug("routing failed", "error", err)
		return RouteResult{}, err
	}
	result := NewRouteResult(g, path)
	logger.Info("fastest route found", "travel_time", result.TravelTime, "length", result.Length, "nodes", len(result.Nodes))
	return result, nil
}

// _GetIndex reuses the index cached on the graph if it matches the requested type.
func (self *Planner) _GetIndex(g *graph.RoadGraph) (graph.IGraphIndex, error) {
	typ := self.options.Index
	index := g.GetIndex()
	if index != nil && (typ == graph.INDEX_AUTO || index.Type() == typ) {
		return index, nil
	}

	var err error
	locator, ok := self.provider.(INodeLocator)
	if typ == graph.INDEX_AUTO && ok {
		index, err = locator.NewGraphIndex(g)
		if err != nil {
			slog.Warn("provider index unavailable, using linear scan", "error", err)
			index, err = graph.NewScanIndex(g), nil
		}
	} else {
		index, err = graph.NewGraphIndex(g, typ)
	}
	if err != nil {
		return nil, err
	}
	g.SetIndex(index)
	return index, nil
}

func (self *Planner) _Snap(which string, point geo.Coord, index graph.IGraphIndex, g *graph.RoadGraph) (int32, error) {
	node, err := graph.FindClosestNode(index, point)
	if err != nil {
		return -1, &InvalidCoordinateError{Which: which, Coord: point, Reason: err.Error(), Err: err}
	}
	if self.options.MaxSnapDistance > 0 {
		dist := geo.HaversineDistance(point, g.GetNodeGeom(node))
		if dist > self.options.MaxSnapDistance {
			return -1, &InvalidCoordinateError{
				Which:  which,
				Coord:  point,
				Reason: fmt.Sprintf("closest node is %.0f m away, limit is %.0f m", dist, self.options.MaxSnapDistance),
			}
		}
	}
	return node, nil
}

func _ValidateCoord(which string, point geo.Coord) error {
	if !point.IsValid() {
		return &InvalidCoordinateError{Which: which, Coord: point, Reason: "latitude or longitude out of range"}
	}
	return nil
}
