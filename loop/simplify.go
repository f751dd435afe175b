package loop

import (
	"fmt"

	"github.com/marcward/glidetrack/geo"
	"github.com/marcward/glidetrack/track"
)

// Simplify reduces a polyline with Douglas-Peucker: points closer than
// epsilonMeters to the chord of their span are dropped. The first and last
// point always survive, and two or fewer points are returned unchanged.
//
// The walk is iterative with an explicit span stack, so pathological inputs
// cannot exhaust the goroutine stack. A negative epsilon is a programmer
// error and panics.
func Simplify(points []track.Fix, epsilonMeters float64) []track.Fix {
	if epsilonMeters < 0 {
		panic(fmt.Sprintf("loop: negative simplification epsilon %v", epsilonMeters))
	}
	if len(points) <= 2 {
		return append([]track.Fix(nil), points...)
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	type span struct{ start, end int }
	stack := []span{{0, len(points) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist := 0.0
		maxIdx := -1
		for i := s.start + 1; i < s.end; i++ {
			d := geo.PerpendicularDistance(
				points[i].Latitude, points[i].Longitude,
				points[s.start].Latitude, points[s.start].Longitude,
				points[s.end].Latitude, points[s.end].Longitude)
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}

		if maxIdx >= 0 && maxDist > epsilonMeters {
			keep[maxIdx] = true
			stack = append(stack, span{s.start, maxIdx}, span{maxIdx, s.end})
		}
	}

	out := make([]track.Fix, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}
