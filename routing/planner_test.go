package routing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/backroads-slo/backroads/attr"
	"github.com/backroads-slo/backroads/geo"
	"github.com/backroads-slo/backroads/graph"
)

// _SquareGraph builds
//
//	B(0,1) --600s--> C(1,1)
//	  ^                ^
//	600s             100s
//	  |                |
//	A(0,0) --100s--> D(1,0)
//
// with ids A=1, B=2, C=3, D=4. All edges drive 36 km/h (10 m/s).
func _SquareGraph(t *testing.T) *graph.RoadGraph {
	t.Helper()
	g := graph.NewRoadGraph()
	nodes := []struct {
		id  int64
		lat float64
		lon float64
	}{{1, 0, 0}, {2, 0, 1}, {3, 1, 1}, {4, 1, 0}}
	for _, n := range nodes {
		if _, err := g.AddNode(n.id, geo.NewCoord(n.lat, n.lon)); err != nil {
			t.Fatal(err)
		}
	}
	edges := []struct {
		from, to int64
		length   float64
		name     string
	}{
		{1, 2, 6000, "Foothill Boulevard"},
		{2, 3, 6000, "Santa Rosa Street"},
		{1, 4, 1000, "Osos Street"},
		{4, 3, 1000, "Osos Street"},
	}
	for _, e := range edges {
		attribs := attr.EdgeAttribs{Type: attr.RESIDENTIAL, Length: e.length, Speed: attr.NumberSpeed(36), Name: e.name}
		if _, err := g.AddEdge(e.from, e.to, attribs, nil); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func _EqualIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindFastestRoute(t *testing.T) {
	g := _SquareGraph(t)
	planner := NewPlanner(nil, DefaultPlannerOptions())

	result, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(1, 1), g)
	if err != nil {
		t.Fatalf("FindFastestRoute error = %v", err)
	}
	if want := []int64{1, 4, 3}; !_EqualIDs(result.Nodes, want) {
		t.Errorf("Nodes = %v; want %v", result.Nodes, want)
	}
	if math.Abs(result.TravelTime-200) > 1e-9 {
		t.Errorf("TravelTime = %v; want 200", result.TravelTime)
	}
	if result.Length != 2000 {
		t.Errorf("Length = %v; want 2000", result.Length)
	}
	if len(result.Geometry) != 3 {
		t.Errorf("Geometry has %d points; want 3", len(result.Geometry))
	}
	if !g.IsAnnotated() {
		t.Errorf("graph should be annotated after the query")
	}
}

func TestFindFastestRouteIdempotent(t *testing.T) {
	g := _SquareGraph(t)
	planner := NewPlanner(nil, DefaultPlannerOptions())

	first, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(1, 1), g)
	if err != nil {
		t.Fatal(err)
	}
	graph.AnnotateTravelTime(g, graph.DefaultWeightingOptions())
	second, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(1, 1), g)
	if err != nil {
		t.Fatal(err)
	}
	if first.TravelTime != second.TravelTime || !_EqualIDs(first.Nodes, second.Nodes) {
		t.Errorf("repeated query = %v, %v; want %v, %v", second.Nodes, second.TravelTime, first.Nodes, first.TravelTime)
	}
}

func TestFindFastestRouteSameNode(t *testing.T) {
	g := _SquareGraph(t)
	planner := NewPlanner(nil, DefaultPlannerOptions())

	result, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0.01, 0.01), geo.NewCoord(0, 0), g)
	if err != nil {
		t.Fatalf("FindFastestRoute error = %v", err)
	}
	if !_EqualIDs(result.Nodes, []int64{1}) || result.TravelTime != 0 {
		t.Errorf("result = %v, %v; want [1], 0", result.Nodes, result.TravelTime)
	}
	if result.ToFeature(false).Geometry.GeoJSONType() != "Point" {
		t.Errorf("single node route should be a point feature")
	}
}

func TestFindFastestRouteNoPath(t *testing.T) {
	g := _SquareGraph(t)
	g.AddNode(5, geo.NewCoord(5, 5))
	planner := NewPlanner(nil, DefaultPlannerOptions())

	_, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(5, 5), g)
	var no_path *NoPathFoundError
	if !errors.As(err, &no_path) {
		t.Fatalf("error = %v; want NoPathFoundError", err)
	}
	if no_path.From != 1 || no_path.To != 5 {
		t.Errorf("NoPathFoundError = %+v; want from 1 to 5", no_path)
	}

	// edges are directed, C has no outgoing edges
	_, err = planner.FindFastestRoute(context.Background(), geo.NewCoord(1, 1), geo.NewCoord(0, 0), g)
	if !errors.As(err, &no_path) {
		t.Errorf("reverse query error = %v; want NoPathFoundError", err)
	}
}

func TestFindFastestRouteParallelEdges(t *testing.T) {
	g := graph.NewRoadGraph()
	g.AddNode(1, geo.NewCoord(35.28, -120.66))
	g.AddNode(2, geo.NewCoord(35.29, -120.66))
	g.AddEdge(1, 2, attr.EdgeAttribs{Length: 1000, Speed: attr.NumberSpeed(36)}, nil)
	g.AddEdge(1, 2, attr.EdgeAttribs{Length: 500, Speed: attr.NumberSpeed(36)}, nil)
	planner := NewPlanner(nil, DefaultPlannerOptions())

	result, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(35.28, -120.66), geo.NewCoord(35.29, -120.66), g)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(result.TravelTime-50) > 1e-9 {
		t.Errorf("TravelTime = %v; want 50", result.TravelTime)
	}
}

func TestFindFastestRouteSpeedList(t *testing.T) {
	g := graph.NewRoadGraph()
	g.AddNode(1, geo.NewCoord(35.28, -120.66))
	g.AddNode(2, geo.NewCoord(35.29, -120.66))
	speed := attr.ListSpeed(attr.TextSpeed("35 mph"), attr.TextSpeed("25 mph"))
	g.AddEdge(1, 2, attr.EdgeAttribs{Length: 1000, Speed: speed}, nil)
	planner := NewPlanner(nil, DefaultPlannerOptions())

	result, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(35.28, -120.66), geo.NewCoord(35.29, -120.66), g)
	if err != nil {
		t.Fatal(err)
	}
	want := 1000 / (25 * 1.609344 * 1000 / 3600)
	if math.Abs(result.TravelTime-want) > 1e-9 {
		t.Errorf("TravelTime = %v; want %v", result.TravelTime, want)
	}
}

func TestFindFastestRouteFarOutside(t *testing.T) {
	g := _SquareGraph(t)
	planner := NewPlanner(nil, DefaultPlannerOptions())

	result, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(-10, -10), geo.NewCoord(10, 10), g)
	if err != nil {
		t.Fatalf("FindFastestRoute error = %v", err)
	}
	if want := []int64{1, 4, 3}; !_EqualIDs(result.Nodes, want) {
		t.Errorf("Nodes = %v; want %v", result.Nodes, want)
	}

	options := DefaultPlannerOptions()
	options.MaxSnapDistance = 1000
	limited := NewPlanner(nil, options)
	_, err = limited.FindFastestRoute(context.Background(), geo.NewCoord(-10, -10), geo.NewCoord(1, 1), g)
	var invalid *InvalidCoordinateError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v; want InvalidCoordinateError", err)
	}
	if invalid.Which != "origin" {
		t.Errorf("Which = %q; want origin", invalid.Which)
	}
}

func TestFindFastestRouteInvalidCoordinates(t *testing.T) {
	g := _SquareGraph(t)
	planner := NewPlanner(nil, DefaultPlannerOptions())

	tests := []struct {
		origin      geo.Coord
		destination geo.Coord
		which       string
	}{
		{geo.NewCoord(math.NaN(), 0), geo.NewCoord(0, 0), "origin"},
		{geo.NewCoord(0, 0), geo.NewCoord(91, 0), "destination"},
		{geo.NewCoord(0, math.Inf(1)), geo.NewCoord(0, 0), "origin"},
		{geo.NewCoord(0, 0), geo.NewCoord(0, -181), "destination"},
	}
	for _, test := range tests {
		_, err := planner.FindFastestRoute(context.Background(), test.origin, test.destination, g)
		var invalid *InvalidCoordinateError
		if !errors.As(err, &invalid) {
			t.Errorf("FindFastestRoute(%v, %v) error = %v; want InvalidCoordinateError", test.origin, test.destination, err)
			continue
		}
		if invalid.Which != test.which {
			t.Errorf("FindFastestRoute(%v, %v) Which = %q; want %q", test.origin, test.destination, invalid.Which, test.which)
		}
	}
}

func TestFindFastestRouteEmptyGraph(t *testing.T) {
	planner := NewPlanner(nil, DefaultPlannerOptions())

	_, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(1, 1), graph.NewRoadGraph())
	var invalid *InvalidCoordinateError
	if !errors.As(err, &invalid) {
		t.Errorf("error = %v; want InvalidCoordinateError", err)
	}
	var no_nodes graph.NoGraphNodesError
	if !errors.As(err, &no_nodes) {
		t.Errorf("error = %v; want NoGraphNodesError", err)
	}
}

func TestFindFastestRouteIndexTypes(t *testing.T) {
	for _, typ := range []graph.IndexType{graph.INDEX_AUTO, graph.INDEX_QUADTREE, graph.INDEX_SCAN} {
		g := _SquareGraph(t)
		options := DefaultPlannerOptions()
		options.Index = typ
		planner := NewPlanner(nil, options)

		result, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0.1, -0.1), geo.NewCoord(0.9, 1.2), g)
		if err != nil {
			t.Fatalf("%v: FindFastestRoute error = %v", typ, err)
		}
		if want := []int64{1, 4, 3}; !_EqualIDs(result.Nodes, want) {
			t.Errorf("%v: Nodes = %v; want %v", typ, result.Nodes, want)
		}
		if g.GetIndex() == nil {
			t.Errorf("%v: index should be cached on the graph", typ)
		} else if typ != graph.INDEX_AUTO && g.GetIndex().Type() != typ {
			t.Errorf("%v: cached index type = %v", typ, g.GetIndex().Type())
		}
	}
}

func TestFindFastestRouteInvalidNodeLocation(t *testing.T) {
	g := _SquareGraph(t)
	g.AddNode(9, geo.NewCoord(95, 0))

	options := DefaultPlannerOptions()
	options.Index = graph.INDEX_QUADTREE
	_, err := NewPlanner(nil, options).FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(1, 1), g)
	var invalid *graph.InvalidNodeLocationError
	if !errors.As(err, &invalid) || invalid.ID != 9 {
		t.Errorf("error = %v; want InvalidNodeLocationError for node 9", err)
	}

	// the automatic index falls back to the linear scan
	result, err := NewPlanner(nil, DefaultPlannerOptions()).FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(1, 1), g)
	if err != nil {
		t.Fatalf("FindFastestRoute(INDEX_AUTO) error = %v", err)
	}
	if want := []int64{1, 4, 3}; !_EqualIDs(result.Nodes, want) {
		t.Errorf("Nodes = %v; want %v", result.Nodes, want)
	}
}

type _TestProvider struct {
	graph   *graph.RoadGraph
	calls   int
	indexed int
}

func (self *_TestProvider) GetGraph(ctx context.Context) (*graph.RoadGraph, error) {
	self.calls++
	return self.graph, nil
}
func (self *_TestProvider) NewGraphIndex(g *graph.RoadGraph) (graph.IGraphIndex, error) {
	self.indexed++
	return graph.NewScanIndex(g), nil
}

func TestFindFastestRouteFromProvider(t *testing.T) {
	provider := &_TestProvider{graph: _SquareGraph(t)}
	planner := NewPlanner(provider, DefaultPlannerOptions())

	for i := 0; i < 2; i++ {
		result, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(1, 1), nil)
		if err != nil {
			t.Fatalf("FindFastestRoute error = %v", err)
		}
		if math.Abs(result.TravelTime-200) > 1e-9 {
			t.Errorf("TravelTime = %v; want 200", result.TravelTime)
		}
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d; want 2", provider.calls)
	}
	// the index of the provider is built once and cached on the graph
	if provider.indexed != 1 {
		t.Errorf("provider index builds = %d; want 1", provider.indexed)
	}
}

func TestFindFastestRouteNoGraph(t *testing.T) {
	planner := NewPlanner(nil, DefaultPlannerOptions())
	if _, err := planner.FindFastestRoute(context.Background(), geo.NewCoord(0, 0), geo.NewCoord(1, 1), nil); err == nil {
		t.Errorf("FindFastestRoute without graph and provider error = nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := planner.FindFastestRoute(ctx, geo.NewCoord(0, 0), geo.NewCoord(1, 1), _SquareGraph(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v; want context.Canceled", err)
	}
}
