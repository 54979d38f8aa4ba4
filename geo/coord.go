package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

//*******************************************
// coordinates
//*******************************************

// Coord is a WGS84 location stored as [lon, lat], same layout as orb.Point.
type Coord orb.Point

func NewCoord(lat, lon float64) Coord {
	return Coord{lon, lat}
}

func (self Coord) Lat() float64 {
	return self[1]
}
func (self Coord) Lon() float64 {
	return self[0]
}

// Point implements orb.Pointer.
func (self Coord) Point() orb.Point {
	return orb.Point(self)
}

// IsValid reports whether the coordinate is finite and inside the lat/lon ranges.
func (self Coord) IsValid() bool {
	lat, lon := self.Lat(), self.Lon()
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

type CoordArray []Coord

func (self CoordArray) LineString() orb.LineString {
	line := make(orb.LineString, len(self))
	for i, c := range self {
		line[i] = c.Point()
	}
	return line
}

func (self CoordArray) Bound() orb.Bound {
	if len(self) == 0 {
		return orb.Bound{}
	}
	return self.LineString().Bound()
}

//*******************************************
// distances
//*******************************************

// HaversineDistance returns the great-circle distance in meters.
func HaversineDistance(a, b Coord) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point())
}

// LineLength sums the great-circle distances along the line in meters.
func LineLength(line CoordArray) float64 {
	if len(line) < 2 {
		return 0
	}
	return geo.LengthHaversine(line.LineString())
}
