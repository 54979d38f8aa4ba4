package routing

import (
	"fmt"

	"github.com/backroads-slo/backroads/geo"
)

//*******************************************
// routing errors
//*******************************************

// InvalidCoordinateError is returned when an origin or destination cannot be
// snapped onto the graph.
type InvalidCoordinateError struct {
	// "origin" or "destination"
	Which  string
	Coord  geo.Coord
	Reason string
	Err    error
}

func (self *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid %s (%v, %v): %s", self.Which, self.Coord.Lat(), self.Coord.Lon(), self.Reason)
}
func (self *InvalidCoordinateError) Unwrap() error {
	return self.Err
}

// NoPathFoundError is returned when no directed path connects two nodes (OSM ids).
type NoPathFoundError struct {
	From int64
	To   int64
}

func (self *NoPathFoundError) Error() string {
	return fmt.Sprintf("no path found from node %d to node %d", self.From, self.To)
}
