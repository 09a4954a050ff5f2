// Package geo measures distances between points around the town.
package geo

import (
	"cmp"
	"math"
	"slices"

	"townguide/internal/types"
)

const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in kilometres.
func Distance(a, b types.Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := sq(math.Sin(dLat/2)) + math.Cos(lat1)*math.Cos(lat2)*sq(math.Sin(dLng/2))
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(math.Min(1, h)))
}

// Within returns the distance from origin to p and whether it is inside
// radiusKm. A radius <= 0 means no limit.
func Within(origin, p types.Point, radiusKm float64) (float64, bool) {
	d := Distance(origin, p)
	return d, radiusKm <= 0 || d <= radiusKm
}

// Metres rounds km to whole metres for display.
func Metres(km float64) int {
	return int(math.Round(km * 1000))
}

// SortByDistance orders items nearest first, keeping the input order of ties.
func SortByDistance[T any](items []T, dist func(T) float64) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(dist(a), dist(b))
	})
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func sq(x float64) float64 { return x * x }
