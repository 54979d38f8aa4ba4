package routing

import (
	"github.com/backroads-slo/backroads/geo"
	"github.com/backroads-slo/backroads/graph"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

//*******************************************
// route result
//*******************************************

// RouteResult is the fastest route between two snapped coordinates.
type RouteResult struct {
	// OSM ids from origin to destination node, both included
	Nodes []int64
	// seconds
	TravelTime float64
	// meters
	Length   float64
	Geometry geo.CoordArray
	Sections []StreetSection
}

func NewRouteResult(g *graph.RoadGraph, path Path) RouteResult {
	return RouteResult{
		Nodes:      path.NodeIDs(g),
		TravelTime: path.TravelTime,
		Length:     path.Length(g),
		Geometry:   path.Geometry(g),
		Sections:   BuildDirections(g, path),
	}
}

// ToFeature converts the route to a GeoJSON feature, a single node route becomes a point.
func (self RouteResult) ToFeature(directions bool) *geojson.Feature {
	var geometry orb.Geometry
	switch {
	case len(self.Geometry) >= 2:
		geometry = self.Geometry.LineString()
	case len(self.Geometry) == 1:
		geometry = self.Geometry[0].Point()
	default:
		geometry = orb.LineString{}
	}
	feature := geojson.NewFeature(geometry)
	feature.Properties["travel_time"] = self.TravelTime
	feature.Properties["length"] = self.Length
	feature.Properties["node_count"] = len(self.Nodes)
	if directions {
		sections := make([]map[string]any, 0, len(self.Sections))
		for _, section := range self.Sections {
			sections = append(sections, map[string]any{
				"street":    section.Street,
				"miles":     section.Miles,
				"direction": section.Direction,
				"symbol":    section.Symbol,
			})
		}
		feature.Properties["directions"] = sections
	}
	return feature
}
