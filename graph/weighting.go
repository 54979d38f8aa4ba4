package graph

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/backroads-slo/backroads/attr"
)

//*******************************************
// speed resolution
//*******************************************

// FALLBACK_SPEED_KPH is used for edges without a usable speed limit.
// It is the speed of a typical residential road.
const FALLBACK_SPEED_KPH = 35.0

const (
	MPH_TO_KPH   = 1.609344
	KNOTS_TO_KPH = 1.852
)

var speed_pattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*(mph|km/h|kmh|kph|knots)?$`)

// ResolveSpeed converts a raw speed limit into km/h.
//
// Lists resolve to their smallest valid candidate, a unit written once
// ("30;40 mph") applies to every unitless value. Missing or unparseable
// values and non-positive speeds resolve to FALLBACK_SPEED_KPH.
func ResolveSpeed(raw attr.SpeedRaw) float64 {
	speed, ok := _ParseSpeed(raw)
	if !ok {
		return FALLBACK_SPEED_KPH
	}
	return speed
}

func _ParseSpeed(raw attr.SpeedRaw) (float64, bool) {
	switch raw.Kind {
	case attr.SPEED_NUMBER:
		return _CheckSpeed(raw.Number)
	case attr.SPEED_TEXT:
		if strings.ContainsAny(raw.Text, ";|") {
			return _ParseSpeedList(_SplitSpeedText(raw.Text))
		}
		return _ParseSpeedText(raw.Text, "")
	case attr.SPEED_LIST:
		return _ParseSpeedList(raw.List)
	default:
		return 0, false
	}
}

// _ParseSpeedText uses default_unit if the text has no unit of its own.
func _ParseSpeedText(text string, default_unit string) (float64, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	match := speed_pattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	unit := match[2]
	if unit == "" {
		unit = default_unit
	}
	switch unit {
	case "mph":
		value *= MPH_TO_KPH
	case "knots":
		value *= KNOTS_TO_KPH
	}
	return _CheckSpeed(value)
}

func _ParseSpeedList(values []attr.SpeedRaw) (float64, bool) {
	found := false
	min_speed := math.Inf(1)
	unit := _ListUnit(values)
	for _, value := range values {
		var speed float64
		var ok bool
		if value.Kind == attr.SPEED_TEXT {
			speed, ok = _ParseSpeedText(value.Text, unit)
		} else {
			speed, ok = _ParseSpeed(value)
		}
		if !ok {
			continue
		}
		found = true
		if speed < min_speed {
			min_speed = speed
		}
	}
	return min_speed, found
}

// _ListUnit returns the last unit written in a list of text speeds.
func _ListUnit(values []attr.SpeedRaw) string {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i].Kind != attr.SPEED_TEXT {
			continue
		}
		match := speed_pattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(values[i].Text)))
		if match != nil && match[2] != "" {
			return match[2]
		}
	}
	return ""
}

func _SplitSpeedText(text string) []attr.SpeedRaw {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ';' || r == '|'
	})
	values := make([]attr.SpeedRaw, len(parts))
	for i, part := range parts {
		values[i] = attr.TextSpeed(part)
	}
	return values
}

func _CheckSpeed(speed float64) (float64, bool) {
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed <= 0 {
		return 0, false
	}
	return speed, true
}

//*******************************************
// travel time weighting
//*******************************************

type WeightingOptions struct {
	// km/h for edges without usable speed, FALLBACK_SPEED_KPH if not positive
	FallbackSpeed float64
	// km/h per road type for edges without usable speed, takes precedence over FallbackSpeed
	HighwaySpeeds map[attr.RoadType]float64
}

func DefaultWeightingOptions() WeightingOptions {
	return WeightingOptions{
		FallbackSpeed: FALLBACK_SPEED_KPH,
	}
}

func (self WeightingOptions) _Fallback() float64 {
	if speed, ok := _CheckSpeed(self.FallbackSpeed); ok {
		return speed
	}
	return FALLBACK_SPEED_KPH
}

// EdgeSpeed resolves the speed of an edge in km/h.
func (self WeightingOptions) EdgeSpeed(edge attr.EdgeAttribs) float64 {
	if speed, ok := _ParseSpeed(edge.Speed); ok {
		return speed
	}
	if speed, ok := _CheckSpeed(self.HighwaySpeeds[edge.Type]); ok {
		return speed
	}
	return self._Fallback()
}

// TravelTime returns the seconds needed for length_m at speed_kph.
//
// Non-positive speeds are replaced by FALLBACK_SPEED_KPH, invalid lengths count as 0.
// The result is always finite and non-negative.
func TravelTime(length_m, speed_kph float64) float64 {
	if math.IsNaN(length_m) || math.IsInf(length_m, 0) || length_m <= 0 {
		return 0
	}
	speed, ok := _CheckSpeed(speed_kph)
	if !ok {
		speed = FALLBACK_SPEED_KPH
	}
	return length_m / (speed * 1000 / 3600)
}

// AnnotateTravelTime sets the travel time of every edge in place.
//
// Travel times are always recomputed from length and raw speed, annotating
// twice gives the same result as annotating once.
func AnnotateTravelTime(g *RoadGraph, options WeightingOptions) {
	for i := range g.edges {
		edge := &g.edges[i]
		speed := options.EdgeSpeed(edge.EdgeAttribs)
		edge.TravelTime = TravelTime(edge.Length, speed)
	}
	g.annotated = true
}
