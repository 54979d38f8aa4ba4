package graph

import (
	"github.com/backroads-slo/backroads/attr"
	"github.com/backroads-slo/backroads/geo"
)

//*******************************************
// graph structs
//*******************************************

type Node struct {
	ID  int64
	Loc geo.Coord
}

type Edge struct {
	NodeA int32
	NodeB int32
	attr.EdgeAttribs
	Geometry geo.CoordArray
	// seconds, derived from Length and Speed by AnnotateTravelTime
	TravelTime float64
}

//*******************************************
// edgeref struct
//*******************************************

type EdgeRef struct {
	EdgeID  int32
	OtherID int32
}
