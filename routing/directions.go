package routing

import (
	"math"

	"github.com/backroads-slo/backroads/geo"
	"github.com/backroads-slo/backroads/graph"
)

//*******************************************
// turn by turn directions
//*******************************************

const METERS_TO_MILES = 0.000621371

const UNNAMED_STREET = "Unnamed"

// StreetSection is a run of consecutive edges on the same street.
type StreetSection struct {
	Street    string
	Miles     float64
	Direction string
	Symbol    string
}

// BuildDirections merges consecutive edges of the path by street name.
//
// The direction of a section is the circular mean of its edge bearings.
func BuildDirections(g *graph.RoadGraph, path Path) []StreetSection {
	sections := make([]StreetSection, 0, 4)
	var street string
	var meters float64
	var bearings []float64

	flush := func() {
		section := StreetSection{
			Street: street,
			Miles:  math.Round(meters*METERS_TO_MILES*100) / 100,
		}
		if mean, ok := geo.MeanBearing(bearings); ok {
			section.Direction = geo.CardinalDirection(mean)
			section.Symbol = geo.DirectionSymbol(section.Direction)
		}
		sections = append(sections, section)
	}

	for i, edge_id := range path.Edges {
		edge := g.GetEdge(edge_id)
		name := edge.Name
		if name == "" {
			name = UNNAMED_STREET
		}
		if i > 0 && name != street {
			flush()
			meters = 0
			bearings = nil
		}
		street = name
		meters += edge.Length
		line := g.GetEdgeGeom(edge_id)
		start, end := line[0], line[len(line)-1]
		if start != end {
			bearings = append(bearings, geo.Bearing(start, end))
		}
	}
	if len(path.Edges) > 0 {
		flush()
	}
	return sections
}
