// Package geo computes great-circle distances between player coordinates.
package geo

import (
	"math"
	"sort"
)

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the Haversine distance between two coordinates.
// Inputs must be validated upstream; non-finite values propagate as NaN.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push a just past 1 for antipodal points
	a = math.Max(0, math.Min(1, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// ValidCoordinate reports whether lat/lon are finite and inside their ranges
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Point is a named coordinate
type Point struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Match is a candidate together with its distance from the origin
type Match struct {
	Point
	Meters float64
}

// Within returns every candidate no further than maxMeters from origin,
// closest first. Equal distances are ordered by name.
func Within(origin Point, candidates []Point, maxMeters float64) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		d := DistanceMeters(origin.Latitude, origin.Longitude, c.Latitude, c.Longitude)
		if d <= maxMeters {
			matches = append(matches, Match{Point: c, Meters: d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Meters != matches[j].Meters {
			return matches[i].Meters < matches[j].Meters
		}
		return matches[i].Name < matches[j].Name
	})
	return matches
}

// Nearest returns the closest candidate within maxMeters
func Nearest(origin Point, candidates []Point, maxMeters float64) (Match, bool) {
	matches := Within(origin, candidates, maxMeters)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}
