package smooth

import (
	"math"
	"testing"
)

func newVelocity(t *testing.T) *VelocitySmoother {
	t.Helper()
	s, err := NewVelocitySmoother(DefaultVelocityConfig())
	if err != nil {
		t.Fatalf("NewVelocitySmoother: %v", err)
	}
	return s
}

func TestVelocitySpikeRejection(t *testing.T) {
	s := newVelocity(t)

	// The 50 mph sample exceeds both the absolute cap and 3x the previous
	// smoothed value, so it is replaced by the previous value before the EMA.
	readings := []float64{5, 5, 50, 6, 5}
	want := []float64{5, 5, 5, 5.6, 5.24}

	for i, r := range readings {
		got := s.AddReading(r)
		if math.Abs(got-want[i]) > 1e-9 {
			t.Fatalf("reading %d (%.0f): smoothed = %v, want %v", i, r, got, want[i])
		}
	}
}

func TestVelocityLegitimateAccelerationKept(t *testing.T) {
	s := newVelocity(t)
	s.AddReading(20)

	// 35 exceeds the absolute cap but not 3x the previous smoothed value,
	// so it must be accepted.
	got := s.AddReading(35)
	want := 0.6*35 + 0.4*20
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("accelerating reading rejected: got %v, want %v", got, want)
	}
}

func TestVelocityStopPreserved(t *testing.T) {
	s := newVelocity(t)
	s.AddReading(20)

	got := s.AddReading(0)
	if got <= 0 || got >= 20 {
		t.Fatalf("stop reading: smoothed = %v, want strictly between 0 and 20", got)
	}
	if math.Abs(got-8.0) > 1e-9 {
		t.Fatalf("stop reading: smoothed = %v, want 8.0", got)
	}
}

func TestVelocityEMAConvergence(t *testing.T) {
	s := newVelocity(t)

	if got := s.AddReading(12); got != 12 {
		t.Fatalf("first reading = %v, want exactly 12", got)
	}

	// Prime away from the target, then feed a constant: the error must
	// shrink strictly every step.
	s.Reset()
	s.AddReading(10)
	const target = 20.0
	prevErr := math.Abs(s.AddReading(target) - target)
	for i := 0; i < 20; i++ {
		err := math.Abs(s.AddReading(target) - target)
		if err >= prevErr {
			t.Fatalf("step %d: error %v did not shrink from %v", i, err, prevErr)
		}
		prevErr = err
	}
}

func TestVelocityReset(t *testing.T) {
	s := newVelocity(t)
	s.AddReading(10)
	s.AddReading(10)
	s.Reset()

	if got := s.AddReading(25); got != 25 {
		t.Fatalf("after reset, first reading = %v, want 25", got)
	}
}

func TestVelocityConfigValidate(t *testing.T) {
	bad := DefaultVelocityConfig()
	bad.MinValueThreshold = -1
	if _, err := NewVelocitySmoother(bad); err == nil {
		t.Fatal("expected error for negative min_value_threshold")
	}

	bad = DefaultVelocityConfig()
	bad.Alpha = 0
	if _, err := NewVelocitySmoother(bad); err == nil {
		t.Fatal("expected error for zero alpha")
	}
}
