package graph

import (
	"math"
	"testing"

	"github.com/backroads-slo/backroads/attr"
	"github.com/backroads-slo/backroads/geo"
)

func TestResolveSpeed(t *testing.T) {
	tests := []struct {
		name string
		raw  attr.SpeedRaw
		want float64
	}{
		{"number", attr.NumberSpeed(50), 50},
		{"small number", attr.NumberSpeed(0.5), 0.5},
		{"plain text", attr.TextSpeed("40"), 40},
		{"decimal text", attr.TextSpeed("42.5"), 42.5},
		{"kmh text", attr.TextSpeed("40 km/h"), 40},
		{"kph text", attr.TextSpeed("40kph"), 40},
		{"mph text", attr.TextSpeed("25 mph"), 25 * MPH_TO_KPH},
		{"mph no space", attr.TextSpeed("25mph"), 25 * MPH_TO_KPH},
		{"mph upper case", attr.TextSpeed("  25 MPH "), 25 * MPH_TO_KPH},
		{"knots", attr.TextSpeed("12 knots"), 12 * KNOTS_TO_KPH},
		{"list takes minimum", attr.ListSpeed(attr.TextSpeed("35 mph"), attr.TextSpeed("25 mph")), 25 * MPH_TO_KPH},
		{"list mixed shapes", attr.ListSpeed(attr.NumberSpeed(30), attr.TextSpeed("25 mph")), 30},
		{"list skips garbage", attr.ListSpeed(attr.TextSpeed("signals"), attr.TextSpeed("45 mph")), 45 * MPH_TO_KPH},
		{"semicolon text", attr.TextSpeed("35;25 mph"), 25 * MPH_TO_KPH},
		{"unit carried to list", attr.TextSpeed("30;40 mph"), 30 * MPH_TO_KPH},
		{"unit carried from tag list", attr.ListSpeed(attr.TextSpeed("30"), attr.TextSpeed("40 mph")), 30 * MPH_TO_KPH},
		{"own unit kept", attr.ListSpeed(attr.TextSpeed("40 km/h"), attr.TextSpeed("30 mph")), 40},
		{"numbers stay km/h", attr.ListSpeed(attr.NumberSpeed(30), attr.TextSpeed("40 mph")), 30},
		{"pipe text", attr.TextSpeed("50|30"), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveSpeed(tt.raw); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ResolveSpeed() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestResolveSpeedFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  attr.SpeedRaw
	}{
		{"missing", attr.MissingSpeed()},
		{"empty text", attr.TextSpeed("")},
		{"none", attr.TextSpeed("none")},
		{"walk", attr.TextSpeed("walk")},
		{"free text", attr.TextSpeed("signals")},
		{"unknown unit", attr.TextSpeed("30 furlongs")},
		{"negative text", attr.TextSpeed("-5")},
		{"zero", attr.NumberSpeed(0)},
		{"negative", attr.NumberSpeed(-30)},
		{"nan", attr.NumberSpeed(math.NaN())},
		{"inf", attr.NumberSpeed(math.Inf(1))},
		{"empty list", attr.ListSpeed()},
		{"list of garbage", attr.ListSpeed(attr.TextSpeed("fast"), attr.MissingSpeed())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveSpeed(tt.raw); got != FALLBACK_SPEED_KPH {
				t.Errorf("ResolveSpeed() = %v; want %v", got, FALLBACK_SPEED_KPH)
			}
		})
	}
}

func TestTravelTime(t *testing.T) {
	tests := []struct {
		length float64
		speed  float64
		want   float64
	}{
		{1000, 36, 100},
		{0, 50, 0},
		{-10, 50, 0},
		{math.NaN(), 50, 0},
		{math.Inf(1), 50, 0},
		{1000, 0, 1000 / (FALLBACK_SPEED_KPH / 3.6)},
		{1000, -20, 1000 / (FALLBACK_SPEED_KPH / 3.6)},
		{1000, math.NaN(), 1000 / (FALLBACK_SPEED_KPH / 3.6)},
	}
	for _, tt := range tests {
		got := TravelTime(tt.length, tt.speed)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TravelTime(%v, %v) = %v; want %v", tt.length, tt.speed, got, tt.want)
		}
		if got < 0 || math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("TravelTime(%v, %v) = %v; want finite non-negative", tt.length, tt.speed, got)
		}
	}
}

func buildWeightingGraph(t *testing.T) *RoadGraph {
	t.Helper()
	g := NewRoadGraph()
	for i := int64(1); i <= 3; i++ {
		if _, err := g.AddNode(i, geo.NewCoord(35.28, -120.66+float64(i)*0.01)); err != nil {
			t.Fatal(err)
		}
	}
	edges := []attr.EdgeAttribs{
		{Length: 1000, Speed: attr.ListSpeed(attr.TextSpeed("25 mph"), attr.TextSpeed("35 mph"))},
		{Length: 500, Speed: attr.NumberSpeed(0), Type: attr.RESIDENTIAL},
		{Length: math.NaN(), Speed: attr.TextSpeed("55 mph")},
		{Length: 250, Speed: attr.MissingSpeed(), Type: attr.MOTORWAY},
		{Length: -3, Speed: attr.TextSpeed("garbage")},
	}
	for i, e := range edges {
		from := int64(i%3) + 1
		to := int64((i+1)%3) + 1
		if _, err := g.AddEdge(from, to, e, nil); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestAnnotateTravelTime(t *testing.T) {
	g := buildWeightingGraph(t)
	if g.IsAnnotated() {
		t.Fatalf("IsAnnotated() = true before annotation")
	}
	AnnotateTravelTime(g, DefaultWeightingOptions())
	if !g.IsAnnotated() {
		t.Fatalf("IsAnnotated() = false after annotation")
	}

	want_list := 1000 / (25 * MPH_TO_KPH * 1000 / 3600)
	if got := g.GetEdge(0).TravelTime; math.Abs(got-want_list) > 1e-9 {
		t.Errorf("list speed edge TravelTime = %v; want %v", got, want_list)
	}
	if got, want := g.GetEdge(1).TravelTime, 500/(FALLBACK_SPEED_KPH/3.6); math.Abs(got-want) > 1e-9 {
		t.Errorf("zero speed edge TravelTime = %v; want %v", got, want)
	}
	for i := 0; i < g.EdgeCount(); i++ {
		tt := g.GetEdge(int32(i)).TravelTime
		if tt < 0 || math.IsNaN(tt) || math.IsInf(tt, 0) {
			t.Errorf("edge %d TravelTime = %v; want finite non-negative", i, tt)
		}
	}
}

func TestAnnotateTravelTimeIsIdempotent(t *testing.T) {
	g := buildWeightingGraph(t)
	AnnotateTravelTime(g, DefaultWeightingOptions())
	first := make([]float64, g.EdgeCount())
	for i := range first {
		first[i] = g.GetEdge(int32(i)).TravelTime
	}
	AnnotateTravelTime(g, DefaultWeightingOptions())
	AnnotateTravelTime(g, DefaultWeightingOptions())
	for i := range first {
		if got := g.GetEdge(int32(i)).TravelTime; got != first[i] {
			t.Errorf("edge %d TravelTime after re-annotation = %v; want %v", i, got, first[i])
		}
	}
}

func TestAnnotateTravelTimeHighwaySpeeds(t *testing.T) {
	g := buildWeightingGraph(t)
	options := WeightingOptions{
		FallbackSpeed: 20,
		HighwaySpeeds: map[attr.RoadType]float64{attr.MOTORWAY: 100, attr.RESIDENTIAL: -1},
	}
	AnnotateTravelTime(g, options)

	// missing speed on a motorway uses the road type speed
	if got, want := g.GetEdge(3).TravelTime, 250/(100/3.6); math.Abs(got-want) > 1e-9 {
		t.Errorf("motorway edge TravelTime = %v; want %v", got, want)
	}
	// invalid road type speed falls through to the configured fallback
	if got, want := g.GetEdge(1).TravelTime, 500/(20/3.6); math.Abs(got-want) > 1e-9 {
		t.Errorf("residential edge TravelTime = %v; want %v", got, want)
	}
	// explicit speeds win over road type speeds
	if got, want := g.GetEdge(0).TravelTime, 1000/(25*MPH_TO_KPH/3.6); math.Abs(got-want) > 1e-9 {
		t.Errorf("list speed edge TravelTime = %v; want %v", got, want)
	}
}

func TestAddEdgeResetsAnnotation(t *testing.T) {
	g := buildWeightingGraph(t)
	AnnotateTravelTime(g, DefaultWeightingOptions())
	if _, err := g.AddEdge(1, 3, attr.EdgeAttribs{Length: 10}, nil); err != nil {
		t.Fatal(err)
	}
	if g.IsAnnotated() {
		t.Errorf("IsAnnotated() = true after AddEdge")
	}
}
