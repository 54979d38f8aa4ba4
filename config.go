package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/backroads-slo/backroads/attr"
	"github.com/backroads-slo/backroads/graph"
	"github.com/backroads-slo/backroads/provider"
	"github.com/backroads-slo/backroads/routing"
	. "github.com/backroads-slo/backroads/util"
	"github.com/go-playground/validator/v10"
	"github.com/paulmach/osm"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file")
	data, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	v := validator.New()
	if err := v.Struct(config); err != nil {
		return Config{}, err
	}
	return config, nil
}

type Config struct {
	LogLevel  string           `yaml:"log-level" validate:"omitempty,oneof=debug info warn error"`
	Graph     GraphOptions     `yaml:"graph"`
	Weighting WeightingOptions `yaml:"weighting"`
	Snapping  SnappingOptions  `yaml:"snapping"`
}

type GraphOptions struct {
	Cache  string        `yaml:"cache"`
	Prune  bool          `yaml:"prune"`
	Source SourceOptions `yaml:"source"`
}

type SourceOptions struct {
	OSM    string         `yaml:"osm"`
	Bounds *BoundsOptions `yaml:"bounds" validate:"omitempty"`
}

type BoundsOptions struct {
	MinLat float64 `yaml:"min-lat" validate:"gte=-90,lte=90"`
	MaxLat float64 `yaml:"max-lat" validate:"gte=-90,lte=90,gtfield=MinLat"`
	MinLon float64 `yaml:"min-lon" validate:"gte=-180,lte=180"`
	MaxLon float64 `yaml:"max-lon" validate:"gte=-180,lte=180,gtfield=MinLon"`
}

type WeightingOptions struct {
	FallbackSpeed float64              `yaml:"fallback-speed" validate:"gte=0"`
	HighwaySpeeds Dict[string, float64] `yaml:"highway-speeds" validate:"dive,gt=0"`
}

type SnappingOptions struct {
	Index       graph.IndexType `yaml:"index"`
	MaxDistance float64         `yaml:"max-distance" validate:"gte=0"`
}

func (self Config) LogLevelValue() slog.Level {
	switch self.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (self Config) ProviderOptions() provider.Options {
	options := provider.Options{
		CacheFile: self.Graph.Cache,
		OSMFile:   self.Graph.Source.OSM,
		Prune:     self.Graph.Prune,
	}
	if b := self.Graph.Source.Bounds; b != nil {
		options.Bounds = &osm.Bounds{MinLat: b.MinLat, MaxLat: b.MaxLat, MinLon: b.MinLon, MaxLon: b.MaxLon}
	}
	return options
}

func (self Config) PlannerOptions() (routing.PlannerOptions, error) {
	options := routing.DefaultPlannerOptions()
	if self.Weighting.FallbackSpeed > 0 {
		options.Weighting.FallbackSpeed = self.Weighting.FallbackSpeed
	}
	if len(self.Weighting.HighwaySpeeds) > 0 {
		speeds := NewDict[attr.RoadType, float64](len(self.Weighting.HighwaySpeeds))
		for name, speed := range self.Weighting.HighwaySpeeds {
			typ := attr.RoadTypeFromString(name)
			if typ == 0 {
				return options, errors.New("unknown highway type in weighting: " + name)
			}
			speeds[typ] = speed
		}
		options.Weighting.HighwaySpeeds = speeds
	}
	options.Index = self.Snapping.Index
	options.MaxSnapDistance = self.Snapping.MaxDistance
	return options, nil
}
