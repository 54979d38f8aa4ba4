package parser

import (
	"strings"

	"github.com/backroads-slo/backroads/attr"
)

//*******************************************
// utility methods
//*******************************************

func _GetOneway(oneway string, junction string, str_type attr.RoadType) OnewayType {
	switch strings.ToLower(strings.TrimSpace(oneway)) {
	case "yes", "true", "1":
		return ONEWAY_FORWARD
	case "-1", "reverse":
		return ONEWAY_BACKWARD
	case "no", "false", "0":
		return ONEWAY_NO
	}
	if str_type == attr.MOTORWAY || str_type == attr.MOTORWAY_LINK {
		return ONEWAY_FORWARD
	}
	if junction == "roundabout" || junction == "circular" {
		return ONEWAY_FORWARD
	}
	return ONEWAY_NO
}

// _GetName prefers the street name and falls back to the route reference ("US 101").
func _GetName(name string, ref string) string {
	if name != "" {
		return name
	}
	return ref
}
