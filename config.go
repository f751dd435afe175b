// Package glidetrack turns a stream of noisy GPS fixes from gliding sports
// into display-ready speed and elevation values, lap counts and a session
// summary. A Session composes the velocity and elevation smoothers with the
// lap tracker and classifies every fix into an effort bucket.
package glidetrack

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/marcward/glidetrack/smooth"
)

// Unit systems for display values. The engine itself is unit-agnostic; the
// session converts provider m/s into the configured display unit before
// smoothing and bucketing.
const (
	UnitsImperial = "imperial" // mph
	UnitsMetric   = "metric"   // km/h
)

// BucketConfig holds the effort-band boundaries in display units. A smoothed
// speed below IdleMax is idle, below EasyMax easy, below MediumMax medium,
// anything faster hard.
type BucketConfig struct {
	IdleMax   float64 `toml:"idle_max"`
	EasyMax   float64 `toml:"easy_max"`
	MediumMax float64 `toml:"medium_max"`
}

// DefaultBucketConfig returns the skiing effort bands in mph.
func DefaultBucketConfig() BucketConfig {
	return BucketConfig{IdleMax: 1.0, EasyMax: 8.0, MediumMax: 16.0}
}

// MetricBucketConfig returns the skiing effort bands in km/h.
func MetricBucketConfig() BucketConfig {
	return BucketConfig{IdleMax: 1.6, EasyMax: 12.9, MediumMax: 25.7}
}

// Validate reports the first invalid configuration value.
func (c BucketConfig) Validate() error {
	if c.IdleMax < 0 {
		return fmt.Errorf("bucket idle_max must be >= 0, got %v", c.IdleMax)
	}
	if c.EasyMax < c.IdleMax {
		return fmt.Errorf("bucket easy_max must be >= idle_max, got %v", c.EasyMax)
	}
	if c.MediumMax < c.EasyMax {
		return fmt.Errorf("bucket medium_max must be >= easy_max, got %v", c.MediumMax)
	}
	return nil
}

// Tuning is the full engine configuration. Zero value is not usable; start
// from DefaultTuning or LoadTuning.
type Tuning struct {
	Units     string                 `toml:"units"`
	Velocity  smooth.VelocityConfig  `toml:"velocity"`
	Elevation smooth.ElevationConfig `toml:"elevation"`
	Buckets   BucketConfig           `toml:"buckets"`
}

// DefaultTuning returns the imperial skiing defaults.
func DefaultTuning() Tuning {
	return Tuning{
		Units:     UnitsImperial,
		Velocity:  smooth.DefaultVelocityConfig(),
		Elevation: smooth.DefaultElevationConfig(),
		Buckets:   DefaultBucketConfig(),
	}
}

// MetricTuning returns the metric skiing defaults.
func MetricTuning() Tuning {
	return Tuning{
		Units:     UnitsMetric,
		Velocity:  smooth.MetricVelocityConfig(),
		Elevation: smooth.DefaultElevationConfig(),
		Buckets:   MetricBucketConfig(),
	}
}

// Validate reports the first invalid configuration value.
func (t Tuning) Validate() error {
	if t.Units != UnitsImperial && t.Units != UnitsMetric {
		return fmt.Errorf("units must be %q or %q, got %q", UnitsImperial, UnitsMetric, t.Units)
	}
	if err := t.Velocity.Validate(); err != nil {
		return err
	}
	if err := t.Elevation.Validate(); err != nil {
		return err
	}
	return t.Buckets.Validate()
}

// SpeedFactor converts provider m/s into the configured display unit.
func (t Tuning) SpeedFactor() float64 {
	if t.Units == UnitsMetric {
		return 3.6
	}
	return 2.23694
}

// LoadTuning reads a partial TOML override file on top of the unit-matched
// defaults: fields absent from the file keep their default values. Setting
// units to metric without overriding the speed-dependent sections switches
// those sections to the metric defaults.
func LoadTuning(path string) (Tuning, error) {
	var probe struct {
		Units string `toml:"units"`
	}
	if _, err := toml.DecodeFile(path, &probe); err != nil {
		return Tuning{}, fmt.Errorf("load tuning %s: %w", path, err)
	}

	t := DefaultTuning()
	if probe.Units == UnitsMetric {
		t = MetricTuning()
	}
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return Tuning{}, fmt.Errorf("load tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}
