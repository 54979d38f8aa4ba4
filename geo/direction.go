package geo

import (
	"math"

	"github.com/paulmach/orb/geo"
)

// Bearing returns the initial bearing from a to b in degrees [0, 360).
func Bearing(a, b Coord) float64 {
	bearing := geo.Bearing(a.Point(), b.Point())
	return math.Mod(bearing+360, 360)
}

// MeanBearing averages bearings on the circle, so 350 and 10 give 0 instead of 180.
//
// Returns false if no bearings are given or they cancel out.
func MeanBearing(bearings []float64) (float64, bool) {
	if len(bearings) == 0 {
		return 0, false
	}
	sin_sum := 0.0
	cos_sum := 0.0
	for _, b := range bearings {
		rad := b * math.Pi / 180
		sin_sum += math.Sin(rad)
		cos_sum += math.Cos(rad)
	}
	if math.Abs(sin_sum) < 1e-9 && math.Abs(cos_sum) < 1e-9 {
		return 0, false
	}
	mean := math.Atan2(sin_sum, cos_sum) * 180 / math.Pi
	return math.Mod(mean+360, 360), true
}

var cardinal_directions = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

var direction_symbols = map[string]string{
	"N": "↑", "NE": "↗", "E": "→", "SE": "↘",
	"S": "↓", "SW": "↙", "W": "←", "NW": "↖",
}

// CardinalDirection maps a bearing onto one of 8 compass directions (45 degree sectors).
func CardinalDirection(bearing float64) string {
	bearing = math.Mod(math.Mod(bearing, 360)+360, 360)
	index := int(math.Floor((bearing+22.5)/45)) % 8
	return cardinal_directions[index]
}

func DirectionSymbol(direction string) string {
	return direction_symbols[direction]
}
