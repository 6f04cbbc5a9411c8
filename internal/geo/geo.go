// Package geo holds the great-circle math used by the village map:
// haversine distances and position interpolation along polylines.
// Everything here is pure and stateless.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Center is the geographic center of Mayotte. Interpolate falls back to it
// when asked to walk an empty path.
var Center = Coordinate{Latitude: -12.8275, Longitude: 45.1662}

// Valid reports whether c lies within the latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180 &&
		!math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude)
}

// Distance returns the haversine distance between a and b in kilometers,
// rounded to two decimal places. Distance(a, b) == Distance(b, a).
func Distance(a, b Coordinate) float64 {
	return math.Round(haversine(a, b)*100) / 100
}

func haversine(a, b Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	h := sLat*sLat + math.Cos(lat1)*math.Cos(lat2)*sLon*sLon
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// PathLength returns the unrounded length of the polyline in kilometers.
func PathLength(path []Coordinate) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += haversine(path[i-1], path[i])
	}
	return total
}

// Interpolate returns the position at fraction t of the way along path,
// measured by distance. An empty path yields Center.
func Interpolate(path []Coordinate, t float64) Coordinate {
	return InterpolateOr(path, t, Center)
}

// InterpolateOr is Interpolate with an explicit fallback for empty paths.
//
// t <= 0 returns the first point and t >= 1 the last point, both exactly.
// Within a segment latitude and longitude are interpolated linearly.
func InterpolateOr(path []Coordinate, t float64, fallback Coordinate) Coordinate {
	switch {
	case len(path) == 0:
		return fallback
	case len(path) == 1 || t <= 0 || math.IsNaN(t):
		return path[0]
	case t >= 1:
		return path[len(path)-1]
	}

	segments := make([]float64, len(path)-1)
	var total float64
	for i := range segments {
		segments[i] = haversine(path[i], path[i+1])
		total += segments[i]
	}
	if total == 0 {
		return path[0]
	}

	target := t * total
	var walked float64
	for i, seg := range segments {
		if seg > 0 && walked+seg >= target {
			f := (target - walked) / seg
			from, to := path[i], path[i+1]
			return Coordinate{
				Latitude:  from.Latitude + (to.Latitude-from.Latitude)*f,
				Longitude: from.Longitude + (to.Longitude-from.Longitude)*f,
			}
		}
		walked += seg
	}
	return path[len(path)-1]
}
