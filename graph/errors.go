package graph

import (
	"fmt"

	"github.com/backroads-slo/backroads/geo"
)

// NoGraphNodesError is returned when a lookup runs against a graph without nodes.
type NoGraphNodesError struct{}

func (NoGraphNodesError) Error() string {
	return "graph has no nodes"
}

// InvalidNodeLocationError is returned when a node cannot be placed in a spatial index.
type InvalidNodeLocationError struct {
	ID  int64
	Loc geo.Coord
}

func (self *InvalidNodeLocationError) Error() string {
	return fmt.Sprintf("node %d has invalid location (%v, %v)", self.ID, self.Loc.Lat(), self.Loc.Lon())
}
