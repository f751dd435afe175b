package glidetrack

import (
	"math"
	"testing"
	"time"

	"github.com/marcward/glidetrack/geo"
	"github.com/marcward/glidetrack/track"
)

var sessionStart = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func fixAt(xMeters, yMeters, altitude, speedMPS float64, at time.Time) track.Fix {
	return track.Fix{
		Latitude:           yMeters / geo.MetersPerDegree,
		Longitude:          xMeters / geo.MetersPerDegree,
		Altitude:           altitude,
		Timestamp:          at,
		SpeedMPS:           speedMPS,
		HorizontalAccuracy: -1,
		VerticalAccuracy:   -1,
	}
}

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(DefaultTuning())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestSessionSmoothsAndBuckets(t *testing.T) {
	s := newSession(t)

	// Steady 5 m/s (~11 mph) on a gentle descent.
	var last Sample
	for i := 0; i < 20; i++ {
		f := fixAt(float64(i*5), 0, 2000-float64(i), 5, sessionStart.Add(time.Duration(i)*time.Second))
		last = s.ProcessFix(f)
	}

	wantRaw := 5 * 2.23694
	if math.Abs(last.SpeedRaw-wantRaw) > 1e-9 {
		t.Fatalf("raw display speed = %v, want %v", last.SpeedRaw, wantRaw)
	}
	if math.Abs(last.Speed-wantRaw) > 0.1 {
		t.Fatalf("smoothed speed = %v, want ~%v after convergence", last.Speed, wantRaw)
	}
	if last.Bucket.Effort != EffortMedium {
		t.Fatalf("bucket effort = %v, want medium", last.Bucket.Effort)
	}
	if last.Bucket.Grade != GradeDownhill {
		t.Fatalf("bucket grade = %v, want downhill", last.Bucket.Grade)
	}
	if last.LapCount != 0 || last.Loop != nil {
		t.Fatalf("straight line produced a lap: count=%d loop=%v", last.LapCount, last.Loop)
	}
}

func TestSessionFlatCountsAsUphill(t *testing.T) {
	s := newSession(t)
	for i := 0; i < 5; i++ {
		got := s.ProcessFix(fixAt(float64(i*5), 0, 1500, 5, sessionStart.Add(time.Duration(i)*time.Second)))
		if got.Bucket.Grade != GradeUphill {
			t.Fatalf("fix %d: flat elevation classified %v, want uphill", i, got.Bucket.Grade)
		}
	}
}

func TestSessionDerivesSpeedWithoutProvider(t *testing.T) {
	s := newSession(t)

	first := s.ProcessFix(fixAt(0, 0, 1500, -1, sessionStart))
	if first.SpeedRaw != 0 {
		t.Fatalf("first fix without provider speed: raw = %v, want 0", first.SpeedRaw)
	}

	// 10 m in 2 s is 5 m/s.
	second := s.ProcessFix(fixAt(10, 0, 1500, -1, sessionStart.Add(2*time.Second)))
	want := 5 * 2.23694
	if math.Abs(second.SpeedRaw-want) > 0.05 {
		t.Fatalf("derived raw speed = %v, want ~%v", second.SpeedRaw, want)
	}
}

func TestSessionCountsLapsOnSquareCourse(t *testing.T) {
	s := newSession(t)

	const speed = 160.0 / 60.0
	events := 0
	for i := 0; i < 180; i++ {
		d := math.Mod(speed*float64(i), 160)
		var x, y float64
		switch {
		case d < 40:
			x, y = d, 0
		case d < 80:
			x, y = 40, d-40
		case d < 120:
			x, y = 120-d, 40
		default:
			x, y = 0, 160-d
		}
		got := s.ProcessFix(fixAt(x, y, 1500, speed, sessionStart.Add(time.Duration(i)*time.Second)))
		if got.Loop != nil {
			events++
			if got.LapCount != events {
				t.Fatalf("lap event %d reported count %d", events, got.LapCount)
			}
			if got.Loop.ID != events {
				t.Fatalf("lap event %d carried loop ID %d", events, got.Loop.ID)
			}
		}
	}

	if events != 3 || s.LapCount() != 3 {
		t.Fatalf("got %d lap events and LapCount %d, want 3 and 3", events, s.LapCount())
	}
	if len(s.Loops()) != 3 {
		t.Fatalf("Loops() returned %d records, want 3", len(s.Loops()))
	}
}

func TestSessionSummary(t *testing.T) {
	s := newSession(t)

	// 60 s at 5 m/s, descending 1 m/s with one flat step in the middle.
	for i := 0; i < 60; i++ {
		alt := 2000 - float64(i)
		if i == 30 {
			alt = 2000 - 29 // repeat the previous altitude
		}
		s.ProcessFix(fixAt(float64(i*5), 0, alt, 5, sessionStart.Add(time.Duration(i)*time.Second)))
	}

	sum := s.Summary()
	if sum.DurationS != 59 {
		t.Fatalf("duration = %v, want 59", sum.DurationS)
	}
	if math.Abs(sum.DistanceM-295) > 1 {
		t.Fatalf("distance = %v, want ~295", sum.DistanceM)
	}
	if sum.DownhillM <= 0 {
		t.Fatalf("downhill vertical = %v, want > 0", sum.DownhillM)
	}
	if sum.MaxSpeed < sum.AvgSpeed || sum.P95Speed > sum.MaxSpeed {
		t.Fatalf("speed stats inconsistent: avg=%v p95=%v max=%v", sum.AvgSpeed, sum.P95Speed, sum.MaxSpeed)
	}
	if sum.MinElevationM >= sum.MaxElevationM {
		t.Fatalf("elevation range inconsistent: min=%v max=%v", sum.MinElevationM, sum.MaxElevationM)
	}
	if sum.LoopCount != 0 {
		t.Fatalf("loop count = %d, want 0", sum.LoopCount)
	}

	total := 0.0
	for _, secs := range sum.TimeInS {
		total += secs
	}
	if math.Abs(total-59) > 1e-9 {
		t.Fatalf("bucket time sums to %v, want 59", total)
	}
}

func TestSessionReset(t *testing.T) {
	s := newSession(t)
	for i := 0; i < 10; i++ {
		s.ProcessFix(fixAt(float64(i*5), 0, 1500, 5, sessionStart.Add(time.Duration(i)*time.Second)))
	}
	s.Reset()

	sum := s.Summary()
	if sum.DistanceM != 0 || len(sum.TimeInS) != 0 {
		t.Fatalf("reset left aggregates behind: %+v", sum)
	}

	// A fix older than the pre-reset stream must be accepted again.
	got := s.ProcessFix(fixAt(0, 0, 1500, 5, sessionStart.Add(-time.Hour)))
	if got.LapCount != 0 {
		t.Fatalf("lap count after reset = %d, want 0", got.LapCount)
	}
}
