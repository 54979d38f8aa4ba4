package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/backroads-slo/backroads/geo"
	"github.com/backroads-slo/backroads/graph"
	"github.com/backroads-slo/backroads/provider"
	"github.com/backroads-slo/backroads/routing"
	"golang.org/x/exp/slog"
)

func main() {
	config_file := flag.String("config", "./config.yaml", "path to the config file")
	from := flag.String("from", "", "origin as lat,lon")
	to := flag.String("to", "", "destination as lat,lon")
	directions := flag.Bool("directions", false, "add street by street directions")
	flag.Parse()

	slog.SetDefault(slog.New(NewLogHandler(os.Stderr, nil)))
	if err := run(*config_file, *from, *to, *directions); err != nil {
		_LogError(err)
		os.Exit(1)
	}
}

func run(config_file, from, to string, directions bool) error {
	config, err := ReadConfig(config_file)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(NewLogHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevelValue()})))

	origin, err := _ParseCoord(from)
	if err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	destination, err := _ParseCoord(to)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}
	options, err := config.PlannerOptions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	planner := routing.NewPlanner(provider.NewGraphProvider(config.ProviderOptions()), options)
	result, err := planner.FindFastestRoute(ctx, origin, destination, nil)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result.ToFeature(directions), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// _ParseCoord reads "lat,lon".
func _ParseCoord(s string) (geo.Coord, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coord{}, fmt.Errorf("expected lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coord{}, err
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coord{}, err
	}
	return geo.NewCoord(lat, lon), nil
}

func _LogError(err error) {
	var invalid *routing.InvalidCoordinateError
	var no_path *routing.NoPathFoundError
	var no_nodes graph.NoGraphNodesError
	switch {
	case errors.As(err, &no_nodes):
		slog.Error("the road graph is empty", "error", err)
	case errors.As(err, &invalid):
		slog.Error("coordinate cannot be used", "which", invalid.Which, "error", err)
	case errors.As(err, &no_path):
		slog.Error("no route between the coordinates", "from", no_path.From, "to", no_path.To)
	default:
		slog.Error(err.Error())
	}
}
