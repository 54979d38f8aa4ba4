package graph

import (
	"fmt"

	"github.com/backroads-slo/backroads/attr"
	"github.com/backroads-slo/backroads/geo"
	. "github.com/backroads-slo/backroads/util"
)

//*******************************************
// graph io
//*******************************************

type _GraphFile struct {
	Nodes []_NodeRecord `json:"nodes"`
	Edges []_EdgeRecord `json:"edges"`
}

type _NodeRecord struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type _EdgeRecord struct {
	From     int64          `json:"from"`
	To       int64          `json:"to"`
	Length   float64        `json:"length"`
	Maxspeed attr.SpeedRaw  `json:"maxspeed"`
	Highway  attr.RoadType  `json:"highway"`
	Name     string         `json:"name,omitempty"`
	OsmID    int64          `json:"osmid,omitempty"`
	Geometry geo.CoordArray `json:"geometry,omitempty"`
}

// Store writes the graph as JSON. Travel times are derived data and not stored.
func Store(g *RoadGraph, file string) error {
	data := _GraphFile{
		Nodes: make([]_NodeRecord, 0, g.NodeCount()),
		Edges: make([]_EdgeRecord, 0, g.EdgeCount()),
	}
	for _, node := range g.nodes {
		data.Nodes = append(data.Nodes, _NodeRecord{ID: node.ID, Lat: node.Loc.Lat(), Lon: node.Loc.Lon()})
	}
	for _, edge := range g.edges {
		data.Edges = append(data.Edges, _EdgeRecord{
			From:     g.nodes[edge.NodeA].ID,
			To:       g.nodes[edge.NodeB].ID,
			Length:   edge.Length,
			Maxspeed: edge.Speed,
			Highway:  edge.Type,
			Name:     edge.Name,
			OsmID:    edge.OsmID,
			Geometry: edge.Geometry,
		})
	}
	return WriteJSONToFile(data, file)
}

// Load reads a graph written by Store. The returned graph is not annotated.
func Load(file string) (*RoadGraph, error) {
	data, err := ReadJSONFromFile[_GraphFile](file)
	if err != nil {
		return nil, err
	}
	g := NewRoadGraph()
	for _, node := range data.Nodes {
		if _, err := g.AddNode(node.ID, geo.NewCoord(node.Lat, node.Lon)); err != nil {
			return nil, fmt.Errorf("invalid graph file %s: %w", file, err)
		}
	}
	for _, edge := range data.Edges {
		attribs := attr.EdgeAttribs{
			Type:   edge.Highway,
			Length: edge.Length,
			Speed:  edge.Maxspeed,
			Name:   edge.Name,
			OsmID:  edge.OsmID,
		}
		if _, err := g.AddEdge(edge.From, edge.To, attribs, edge.Geometry); err != nil {
			return nil, fmt.Errorf("invalid graph file %s: %w", file, err)
		}
	}
	return g, nil
}
