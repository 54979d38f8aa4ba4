package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/backroads-slo/backroads/attr"
	"github.com/backroads-slo/backroads/geo"
	"github.com/backroads-slo/backroads/graph"
	. "github.com/backroads-slo/backroads/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"golang.org/x/exp/slog"
)

// ParseGraph reads an OSM extract (.pbf, .osm or .xml) into a road graph.
//
// The file is scanned twice, ways first to find the referenced nodes, then
// nodes for their locations.
func ParseGraph(ctx context.Context, file string, decoder IOSMDecoder) (*graph.RoadGraph, error) {
	open, err := _ScannerFactory(file)
	if err != nil {
		return nil, err
	}
	builder := NewGraphBuilder(decoder)

	scanner, err := open(ctx, true)
	if err != nil {
		return nil, err
	}
	err = _ScanObjects(scanner, func(object osm.Object) {
		if way, ok := object.(*osm.Way); ok {
			builder.AddWay(way)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan ways of %s: %w", file, err)
	}

	scanner, err = open(ctx, false)
	if err != nil {
		return nil, err
	}
	err = _ScanObjects(scanner, func(object osm.Object) {
		if node, ok := object.(*osm.Node); ok {
			builder.AddNode(node)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan nodes of %s: %w", file, err)
	}

	g, err := builder.Build()
	if err != nil {
		return nil, err
	}
	slog.Info(fmt.Sprintf("parsed %s", file), "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// BuildGraph converts in-memory OSM data (e.g. from the OSM API) into a road graph.
func BuildGraph(data *osm.OSM, decoder IOSMDecoder) (*graph.RoadGraph, error) {
	builder := NewGraphBuilder(decoder)
	for _, way := range data.Ways {
		builder.AddWay(way)
	}
	for _, node := range data.Nodes {
		builder.AddNode(node)
	}
	return builder.Build()
}

type _OpenScanner func(ctx context.Context, ways bool) (osm.Scanner, error)

func _ScannerFactory(file string) (_OpenScanner, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".pbf":
		return func(ctx context.Context, ways bool) (osm.Scanner, error) {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			scanner := osmpbf.New(ctx, f, runtime.GOMAXPROCS(-1))
			scanner.SkipNodes = ways
			scanner.SkipWays = !ways
			scanner.SkipRelations = true
			return _FileScanner{scanner, f}, nil
		}, nil
	case ".osm", ".xml":
		return func(ctx context.Context, ways bool) (osm.Scanner, error) {
			f, err := os.Open(file)
			if err != nil {
				return nil, err
			}
			return _FileScanner{osmxml.New(ctx, f), f}, nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported osm file %s", file)
	}
}

// _FileScanner closes the underlying file together with the scanner.
type _FileScanner struct {
	osm.Scanner
	file io.Closer
}

func (self _FileScanner) Close() error {
	err := self.Scanner.Close()
	if ferr := self.file.Close(); err == nil {
		err = ferr
	}
	return err
}

func _ScanObjects(scanner osm.Scanner, handler func(osm.Object)) error {
	defer scanner.Close()
	for scanner.Scan() {
		handler(scanner.Object())
	}
	return scanner.Err()
}

//*******************************************
// osm decoder
//*******************************************

type IOSMDecoder interface {
	IsValidHighway(tags Dict[string, string]) bool
	DecodeEdge(tags Dict[string, string]) (attr.EdgeAttribs, OnewayType)
}

//*******************************************
// graph builder
//*******************************************

// GraphBuilder collects highway ways and node locations and splits the ways
// into edges between intersections.
type GraphBuilder struct {
	decoder   IOSMDecoder
	ways      List[_OSMWay]
	node_refs Dict[int64, bool]
	node_locs Dict[int64, geo.Coord]
}

func NewGraphBuilder(decoder IOSMDecoder) *GraphBuilder {
	return &GraphBuilder{
		decoder:   decoder,
		ways:      NewList[_OSMWay](1000),
		node_refs: NewDict[int64, bool](10000),
		node_locs: NewDict[int64, geo.Coord](10000),
	}
}

// AddWay keeps the way if the decoder accepts it. All ways have to be added before their nodes.
func (self *GraphBuilder) AddWay(way *osm.Way) {
	tags := Dict[string, string](way.TagMap())
	if !self.decoder.IsValidHighway(tags) {
		return
	}
	ids := way.Nodes.NodeIDs()
	if len(ids) < 2 {
		return
	}
	nodes := NewList[int64](len(ids))
	for _, id := range ids {
		ref := int64(id)
		nodes.Add(ref)
		self.node_refs[ref] = true
	}
	self.ways.Add(_OSMWay{ID: int64(way.ID), Nodes: nodes, Tags: tags})
}

// AddNode stores the location of nodes referenced by a kept way.
func (self *GraphBuilder) AddNode(node *osm.Node) {
	id := int64(node.ID)
	if !self.node_refs.ContainsKey(id) {
		return
	}
	self.node_locs[id] = geo.NewCoord(node.Lat, node.Lon)
}

func (self *GraphBuilder) Build() (*graph.RoadGraph, error) {
	// nodes missing from the extract (clipped ways) are dropped from their way
	ways := NewList[_OSMWay](self.ways.Length())
	for _, way := range self.ways {
		nodes := NewList[int64](way.Nodes.Length())
		for _, ref := range way.Nodes {
			if self.node_locs.ContainsKey(ref) {
				nodes.Add(ref)
			}
		}
		if nodes.Length() < 2 {
			continue
		}
		way.Nodes = nodes
		ways.Add(way)
	}

	// way endpoints count twice, so every node with count > 1 ends an edge
	counts := NewDict[int64, int32](len(self.node_locs))
	for _, way := range ways {
		for _, ref := range way.Nodes {
			counts[ref] += 1
		}
		counts[way.Nodes[0]] += 1
		counts[way.Nodes[way.Nodes.Length()-1]] += 1
	}

	g := graph.NewRoadGraph()
	for _, way := range ways {
		for _, ref := range way.Nodes {
			if counts[ref] <= 1 {
				continue
			}
			if _, ok := g.GetNodeIndex(ref); ok {
				continue
			}
			if _, err := g.AddNode(ref, self.node_locs[ref]); err != nil {
				return nil, err
			}
		}
	}

	for _, way := range ways {
		attribs, oneway := self.decoder.DecodeEdge(way.Tags)
		attribs.OsmID = way.ID

		start := way.Nodes[0]
		geometry := geo.CoordArray{self.node_locs[start]}
		for i := 1; i < way.Nodes.Length(); i++ {
			curr := way.Nodes[i]
			geometry = append(geometry, self.node_locs[curr])
			if counts[curr] <= 1 {
				continue
			}
			attribs.Length = geo.LineLength(geometry)
			if oneway != ONEWAY_BACKWARD {
				if _, err := g.AddEdge(start, curr, attribs, geometry); err != nil {
					return nil, err
				}
			}
			if oneway != ONEWAY_FORWARD {
				if _, err := g.AddEdge(curr, start, attribs, _Reversed(geometry)); err != nil {
					return nil, err
				}
			}
			start = curr
			geometry = geo.CoordArray{self.node_locs[curr]}
		}
	}
	return g, nil
}

func _Reversed(line geo.CoordArray) geo.CoordArray {
	reversed := make(geo.CoordArray, len(line))
	for i, c := range line {
		reversed[len(line)-1-i] = c
	}
	return reversed
}
