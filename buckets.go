package glidetrack

import "fmt"

// Effort is the speed band of one sample, judged on smoothed display speed.
type Effort int

const (
	EffortIdle Effort = iota
	EffortEasy
	EffortMedium
	EffortHard
)

func (e Effort) String() string {
	switch e {
	case EffortIdle:
		return "idle"
	case EffortEasy:
		return "easy"
	case EffortMedium:
		return "medium"
	case EffortHard:
		return "hard"
	default:
		return fmt.Sprintf("effort(%d)", int(e))
	}
}

// Grade is the vertical direction of one sample, judged on the smoothed
// elevation delta. Flat counts as uphill so that lift rides and traverses,
// which GPS reports as near-zero delta, land in the uphill tally.
type Grade int

const (
	GradeUphill Grade = iota
	GradeDownhill
)

func (g Grade) String() string {
	if g == GradeDownhill {
		return "downhill"
	}
	return "uphill"
}

// Bucket is the effort/grade cell a sample falls into, e.g. "medium_downhill".
type Bucket struct {
	Effort Effort `json:"effort"`
	Grade  Grade  `json:"grade"`
}

func (b Bucket) String() string {
	return b.Effort.String() + "_" + b.Grade.String()
}

// MarshalText lets buckets serve as JSON map keys and CSV cells.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// classify places one sample by smoothed display speed and smoothed
// elevation delta. A non-negative delta is uphill.
func classify(cfg BucketConfig, speed, elevationDelta float64) Bucket {
	var e Effort
	switch {
	case speed < cfg.IdleMax:
		e = EffortIdle
	case speed < cfg.EasyMax:
		e = EffortEasy
	case speed < cfg.MediumMax:
		e = EffortMedium
	default:
		e = EffortHard
	}

	g := GradeUphill
	if elevationDelta < 0 {
		g = GradeDownhill
	}
	return Bucket{Effort: e, Grade: g}
}
