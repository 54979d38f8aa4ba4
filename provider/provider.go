package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/backroads-slo/backroads/graph"
	"github.com/backroads-slo/backroads/parser"
	. "github.com/backroads-slo/backroads/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmapi"
	"golang.org/x/exp/slog"
)

//*******************************************
// graph provider
//*******************************************

type Options struct {
	// json graph cache, read if it exists and written after building
	CacheFile string
	// .pbf, .osm or .xml extract
	OSMFile string
	// area downloaded from the OSM API if no extract is given
	Bounds *osm.Bounds
	// keep only the largest connected component
	Prune bool
	// parser.DrivingDecoder if nil
	Decoder parser.IOSMDecoder
}

type _Download func(ctx context.Context, bounds *osm.Bounds) (*osm.OSM, error)

// GraphProvider loads the road graph once and hands out the same graph afterwards.
type GraphProvider struct {
	options  Options
	download _Download

	mu    sync.Mutex
	graph *graph.RoadGraph
}

func NewGraphProvider(options Options) *GraphProvider {
	if options.Decoder == nil {
		options.Decoder = &parser.DrivingDecoder{}
	}
	return &GraphProvider{
		options: options,
		download: func(ctx context.Context, bounds *osm.Bounds) (*osm.OSM, error) {
			return osmapi.Map(ctx, bounds)
		},
	}
}

// GetGraph returns the cached graph, falling back to the OSM extract and
// then to the OSM API.
func (self *GraphProvider) GetGraph(ctx context.Context) (*graph.RoadGraph, error) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.graph != nil {
		return self.graph, nil
	}
	g, err := self._LoadGraph(ctx)
	if err != nil {
		return nil, err
	}
	bound := g.Bound()
	slog.Info("graph loaded", "nodes", g.NodeCount(), "edges", g.EdgeCount(),
		"bounds", fmt.Sprintf("%v %v", bound.Min, bound.Max))
	self.graph = g
	return g, nil
}

// NewGraphIndex builds a quadtree index for the planner.
func (self *GraphProvider) NewGraphIndex(g *graph.RoadGraph) (graph.IGraphIndex, error) {
	index, err := graph.NewQuadtreeIndex(g)
	if err != nil {
		return nil, err
	}
	return index, nil
}

func (self *GraphProvider) _LoadGraph(ctx context.Context) (*graph.RoadGraph, error) {
	cache := self.options.CacheFile
	if cache != "" && FileExists(cache) {
		g, err := graph.Load(cache)
		if err == nil {
			slog.Debug(fmt.Sprintf("loaded graph from cache %s", cache))
			return g, nil
		}
		slog.Warn("failed to read graph cache, rebuilding", "file", cache, "error", err)
	}

	g, err := self._BuildGraph(ctx)
	if err != nil {
		return nil, err
	}
	if self.options.Prune {
		count := g.NodeCount()
		g, err = graph.LargestComponent(g)
		if err != nil {
			return nil, err
		}
		slog.Info(fmt.Sprintf("removed %v nodes outside the largest component", count-g.NodeCount()))
	}
	if cache != "" {
		if err := graph.Store(g, cache); err != nil {
			slog.Warn("failed to write graph cache", "file", cache, "error", err)
		}
	}
	return g, nil
}

func (self *GraphProvider) _BuildGraph(ctx context.Context) (*graph.RoadGraph, error) {
	switch {
	case self.options.OSMFile != "":
		return parser.ParseGraph(ctx, self.options.OSMFile, self.options.Decoder)
	case self.options.Bounds != nil:
		bounds := self.options.Bounds
		slog.Info("downloading osm data", "bounds", fmt.Sprintf("%v", *bounds))
		data, err := self.download(ctx, bounds)
		if err != nil {
			return nil, fmt.Errorf("failed to download osm data: %w", err)
		}
		return parser.BuildGraph(data, self.options.Decoder)
	default:
		return nil, errors.New("no graph source configured, set an osm file or bounds")
	}
}
