package glidetrack

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/marcward/glidetrack/track"
)

// LoopSummary condenses one confirmed loop for the session summary.
type LoopSummary struct {
	ID         int     `json:"id"`
	DistanceM  float64 `json:"distance_m"`
	DurationS  float64 `json:"duration_s"`
	AvgSpeed   float64 `json:"avg_speed"`
	PointCount int     `json:"point_count"`
}

// Summary aggregates one whole session. Speeds are in the session's display
// unit, distances and verticals in meters.
type Summary struct {
	Units     string  `json:"units"`
	DurationS float64 `json:"duration_s"`
	DistanceM float64 `json:"distance_m"`

	AvgSpeed float64 `json:"avg_speed"`
	MaxSpeed float64 `json:"max_speed"`
	P95Speed float64 `json:"p95_speed"`

	MinElevationM    float64 `json:"min_elevation_m"`
	MaxElevationM    float64 `json:"max_elevation_m"`
	ElevationStddevM float64 `json:"elevation_stddev_m"`

	UphillM   float64 `json:"uphill_m"`
	DownhillM float64 `json:"downhill_m"`

	LoopCount int                `json:"loop_count"`
	Loops     []LoopSummary      `json:"loops,omitempty"`
	TimeInS   map[string]float64 `json:"time_in_bucket_s"`
}

// Summary computes the aggregate view of everything processed so far.
func (s *Session) Summary() Summary {
	out := Summary{
		Units:     s.tuning.Units,
		DurationS: s.end.Sub(s.start).Seconds(),
		DistanceM: s.distanceMeters,
		UphillM:   s.uphillMeters,
		DownhillM: s.downhillMeters,
		LoopCount: s.tracker.LoopCount(),
		TimeInS:   make(map[string]float64, len(s.bucketTime)),
	}
	for b, d := range s.bucketTime {
		out.TimeInS[b.String()] = d.Seconds()
	}

	if len(s.speeds) > 0 {
		sorted := append([]float64(nil), s.speeds...)
		sort.Float64s(sorted)
		out.AvgSpeed = stat.Mean(sorted, nil)
		out.MaxSpeed = sorted[len(sorted)-1]
		out.P95Speed = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	}
	if len(s.elevations) > 0 {
		sorted := append([]float64(nil), s.elevations...)
		sort.Float64s(sorted)
		out.MinElevationM = sorted[0]
		out.MaxElevationM = sorted[len(sorted)-1]
		out.ElevationStddevM = stat.StdDev(sorted, nil)
	}

	for _, lp := range s.tracker.Loops() {
		out.Loops = append(out.Loops, summarizeLoop(lp, s.speedFactor))
	}
	return out
}

func summarizeLoop(lp track.Loop, speedFactor float64) LoopSummary {
	avg := 0.0
	if secs := lp.Duration.Seconds(); secs > 0 {
		avg = lp.DistanceMeters / secs * speedFactor
	}
	return LoopSummary{
		ID:         lp.ID,
		DistanceM:  lp.DistanceMeters,
		DurationS:  lp.Duration.Seconds(),
		AvgSpeed:   avg,
		PointCount: len(lp.Points),
	}
}
