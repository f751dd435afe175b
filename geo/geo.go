// Package geo provides the small set of pure geodesic helpers shared by the
// smoothing and loop-detection components: great-circle distance, a local
// planar projection, and point-to-segment distance in that projection.
//
// The planar approximation treats one degree of latitude as a fixed number
// of meters and scales longitude by cos(latitude). At the sub-kilometer
// scale this engine targets the error is negligible.
package geo

import "math"

const (
	// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
	EarthRadiusMeters = 6371000.0

	// MetersPerDegree is the approximate length of one degree of latitude.
	MetersPerDegree = 111319.9
)

// Haversine returns the great-circle distance in meters between two
// coordinates given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// PlanarMeters projects a coordinate to local planar meters using an
// equirectangular approximation.
func PlanarMeters(lat, lon float64) (x, y float64) {
	x = lon * MetersPerDegree * math.Cos(lat*math.Pi/180)
	y = lat * MetersPerDegree
	return x, y
}

// PerpendicularDistance returns the distance in meters from a point to the
// segment between segStart and segEnd, all given as lat/lon degrees. The
// computation happens in the local planar projection. A zero-length segment
// falls back to the direct point-to-endpoint distance.
func PerpendicularDistance(lat, lon, segStartLat, segStartLon, segEndLat, segEndLon float64) float64 {
	px, py := PlanarMeters(lat, lon)
	ax, ay := PlanarMeters(segStartLat, segStartLon)
	bx, by := PlanarMeters(segEndLat, segEndLon)

	dx := bx - ax
	dy := by - ay
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}

	t := ((px-ax)*dx + (py-ay)*dy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
