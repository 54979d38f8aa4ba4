package parser

import (
	. "github.com/backroads-slo/backroads/util"
)

//*******************************************
// parser structs
//*******************************************

type OnewayType byte

const (
	ONEWAY_NO       OnewayType = 0
	ONEWAY_FORWARD  OnewayType = 1
	ONEWAY_BACKWARD OnewayType = 2
)

type _OSMWay struct {
	ID    int64
	Nodes List[int64]
	Tags  Dict[string, string]
}
