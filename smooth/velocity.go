// Package smooth contains the per-session signal conditioners that turn raw
// GPS readings into display-ready values: a spike-rejecting exponential
// smoother for speed and a pattern-aware adaptive smoother for elevation.
//
// Both smoothers are unit-agnostic, O(1)-state, strictly sequential and not
// safe for concurrent use; each session owns exactly one instance of each.
package smooth

import "fmt"

// VelocityConfig tunes the velocity smoother. All values are in whatever
// display unit the caller feeds into AddReading.
type VelocityConfig struct {
	// AbsoluteMax is the speed above which a reading becomes a spike
	// candidate. Readings must also exceed SpikeMultiplier times the
	// previous smoothed value to be rejected, so legitimate fast skiing
	// above AbsoluteMax still tracks.
	AbsoluteMax float64 `toml:"absolute_max"`

	// SpikeMultiplier scales the previous smoothed value for the second
	// half of the spike test.
	SpikeMultiplier float64 `toml:"spike_multiplier"`

	// MinValueThreshold marks the "essentially stopped" band. Readings
	// below it are always accepted as-is so true stops are preserved.
	MinValueThreshold float64 `toml:"min_value_threshold"`

	// Alpha is the EMA weight of the newest accepted reading.
	Alpha float64 `toml:"alpha"`
}

// DefaultVelocityConfig returns the skiing defaults in mph.
func DefaultVelocityConfig() VelocityConfig {
	return VelocityConfig{
		AbsoluteMax:       30.0,
		SpikeMultiplier:   3.0,
		MinValueThreshold: 1.0,
		Alpha:             0.6,
	}
}

// MetricVelocityConfig returns the skiing defaults in km/h.
func MetricVelocityConfig() VelocityConfig {
	return VelocityConfig{
		AbsoluteMax:       48.0,
		SpikeMultiplier:   3.0,
		MinValueThreshold: 1.6,
		Alpha:             0.6,
	}
}

// Validate reports the first invalid configuration value.
func (c VelocityConfig) Validate() error {
	if c.AbsoluteMax < 0 {
		return fmt.Errorf("velocity absolute_max must be >= 0, got %v", c.AbsoluteMax)
	}
	if c.SpikeMultiplier < 0 {
		return fmt.Errorf("velocity spike_multiplier must be >= 0, got %v", c.SpikeMultiplier)
	}
	if c.MinValueThreshold < 0 {
		return fmt.Errorf("velocity min_value_threshold must be >= 0, got %v", c.MinValueThreshold)
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("velocity alpha must be in (0, 1], got %v", c.Alpha)
	}
	return nil
}

// VelocitySmoother de-spikes and exponentially smooths one scalar speed
// stream. It always returns a value; rejections substitute the previous
// smoothed speed rather than erroring.
type VelocitySmoother struct {
	cfg         VelocityConfig
	previous    float64
	hasPrevious bool
}

// NewVelocitySmoother returns a fresh smoother for one session.
func NewVelocitySmoother(cfg VelocityConfig) (*VelocitySmoother, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &VelocitySmoother{cfg: cfg}, nil
}

// AddReading consumes one raw speed reading and returns the smoothed speed.
//
// A reading below MinValueThreshold is always accepted so that real stops
// show up immediately. Otherwise a reading is rejected as a GPS spike only
// when it exceeds both AbsoluteMax and SpikeMultiplier times the previous
// smoothed value; requiring both keeps genuine rapid acceleration while
// catching single-sample glitches.
func (s *VelocitySmoother) AddReading(speed float64) float64 {
	accepted := speed
	if speed >= s.cfg.MinValueThreshold && s.hasPrevious {
		if speed > s.cfg.AbsoluteMax && speed > s.cfg.SpikeMultiplier*s.previous {
			accepted = s.previous
		}
	}

	smoothed := accepted
	if s.hasPrevious {
		smoothed = s.cfg.Alpha*accepted + (1-s.cfg.Alpha)*s.previous
	}
	s.previous = smoothed
	s.hasPrevious = true
	return smoothed
}

// Reset clears the smoother for a new session.
func (s *VelocitySmoother) Reset() {
	s.previous = 0
	s.hasPrevious = false
}
