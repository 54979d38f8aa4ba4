package parser

import (
	"github.com/backroads-slo/backroads/attr"
	. "github.com/backroads-slo/backroads/util"
)

type DrivingDecoder struct {
}

var driving_types = Dict[string, bool]{"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true, "secondary": true, "secondary_link": true, "tertiary": true, "tertiary_link": true,
	"residential": true, "living_street": true, "service": true, "track": true, "unclassified": true, "road": true}

var blocked_access = Dict[string, bool]{"no": true, "private": true}

func (self *DrivingDecoder) IsValidHighway(tags Dict[string, string]) bool {
	if !tags.ContainsKey("highway") {
		return false
	}
	if !driving_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	if tags.Get("area") == "yes" {
		return false
	}
	if blocked_access.ContainsKey(tags.Get("access")) || blocked_access.ContainsKey(tags.Get("motor_vehicle")) {
		return false
	}
	return true
}
func (self *DrivingDecoder) DecodeEdge(tags Dict[string, string]) (attr.EdgeAttribs, OnewayType) {
	e := attr.EdgeAttribs{}
	e.Type = attr.RoadTypeFromString(tags.Get("highway"))
	e.Speed = attr.SpeedFromTag(tags.Get("maxspeed"))
	e.Name = _GetName(tags.Get("name"), tags.Get("ref"))
	oneway := _GetOneway(tags.Get("oneway"), tags.Get("junction"), e.Type)
	return e, oneway
}
