package loop

import (
	"math"

	"github.com/marcward/glidetrack/track"
)

const (
	// simplifyEpsilonMeters is the Douglas-Peucker tolerance applied before
	// comparing loop shapes, bounding the comparison cost by simplified
	// point counts rather than raw sample counts.
	simplifyEpsilonMeters = 10.0

	// lengthTolerance is the maximum relative path-length difference two
	// loops may have and still be compared point-by-point.
	lengthTolerance = 0.20

	// similarityThresholdMeters bounds the bidirectional average
	// nearest-point distance for two loops to count as the same shape.
	similarityThresholdMeters = 30.0
)

// similarShape reports whether two polylines trace the same course. A cheap
// path-length ratio check runs first; survivors are compared by average
// nearest-point distance in both directions, taking the worse of the two.
// Degenerate inputs (empty after simplification, or both zero length) are
// dissimilar, never NaN.
func similarShape(a, b []track.Fix) bool {
	sa := Simplify(a, simplifyEpsilonMeters)
	sb := Simplify(b, simplifyEpsilonMeters)
	if len(sa) == 0 || len(sb) == 0 {
		return false
	}

	lenA := track.PathDistance(sa)
	lenB := track.PathDistance(sb)
	longer := math.Max(lenA, lenB)
	if longer == 0 {
		return false
	}
	if math.Abs(lenA-lenB)/longer > lengthTolerance {
		return false
	}

	forward := averageNearestDistance(sa, sb)
	backward := averageNearestDistance(sb, sa)
	return math.Max(forward, backward) < similarityThresholdMeters
}

// averageNearestDistance is the mean, over points of from, of each point's
// distance to its nearest point in to.
func averageNearestDistance(from, to []track.Fix) float64 {
	total := 0.0
	for _, p := range from {
		nearest := math.Inf(1)
		for _, q := range to {
			if d := track.Distance(p, q); d < nearest {
				nearest = d
			}
		}
		total += nearest
	}
	return total / float64(len(from))
}
