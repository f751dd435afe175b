package smooth

import "fmt"

// Estimated vertical accuracies, in meters, assigned by the pattern
// detector when the provider supplies none. Anything above the rejection
// threshold (default 20) is treated as a bad sample.
const (
	accuracyUnknown     = 20.0 // too little history to judge
	accuracyReversal    = 30.0 // large change that immediately reverses
	accuracyOscillation = 25.0 // alternating up/down noise
	accuracyJitter      = 15.0 // small oscillation around one value
	accuracyGood        = 8.0
)

// rawHistorySize bounds the raw-elevation buffer used for pattern detection.
const rawHistorySize = 4

// ElevationConfig tunes the elevation smoother. Elevations and thresholds
// are in meters.
type ElevationConfig struct {
	// VerticalAccuracyThreshold rejects readings whose reported or
	// estimated accuracy is worse than this.
	VerticalAccuracyThreshold float64 `toml:"vertical_accuracy_threshold"`

	// AlphaMin/AlphaMax bound the adaptive EMA weight. The smoother sits
	// near AlphaMin on noisy flats and approaches AlphaMax on sustained
	// climbs or descents so real slopes track responsively.
	AlphaMin float64 `toml:"alpha_min"`
	AlphaMax float64 `toml:"alpha_max"`

	// TrendWindow is how many accepted readings feed trend detection.
	TrendWindow int `toml:"trend_window"`

	// SpikeReversalThreshold is the per-step change, in meters, above
	// which two opposing consecutive changes count as a reversal spike.
	SpikeReversalThreshold float64 `toml:"spike_reversal_threshold"`
}

// DefaultElevationConfig returns the production defaults.
func DefaultElevationConfig() ElevationConfig {
	return ElevationConfig{
		VerticalAccuracyThreshold: 20.0,
		AlphaMin:                  0.25,
		AlphaMax:                  0.75,
		TrendWindow:               5,
		SpikeReversalThreshold:    3.0,
	}
}

// Validate reports the first invalid configuration value.
func (c ElevationConfig) Validate() error {
	if c.VerticalAccuracyThreshold < 0 {
		return fmt.Errorf("elevation vertical_accuracy_threshold must be >= 0, got %v", c.VerticalAccuracyThreshold)
	}
	if c.AlphaMin <= 0 || c.AlphaMin > 1 {
		return fmt.Errorf("elevation alpha_min must be in (0, 1], got %v", c.AlphaMin)
	}
	if c.AlphaMax < c.AlphaMin || c.AlphaMax > 1 {
		return fmt.Errorf("elevation alpha_max must be in [alpha_min, 1], got %v", c.AlphaMax)
	}
	if c.TrendWindow < 2 {
		return fmt.Errorf("elevation trend_window must be >= 2, got %d", c.TrendWindow)
	}
	if c.SpikeReversalThreshold < 0 {
		return fmt.Errorf("elevation spike_reversal_threshold must be >= 0, got %v", c.SpikeReversalThreshold)
	}
	return nil
}

// ElevationSmoother de-spikes and adaptively smooths a raw altitude stream.
//
// GPS altitude under degraded reception (tree canopy, valley walls)
// produces single-sample spikes that reverse immediately, while real hills
// produce multi-sample consistent-direction trends. The smoother rejects
// isolated reversals and oscillations but raises its EMA weight on
// consistent trends, avoiding both lag on real descents and false vertical
// accumulation from noise.
type ElevationSmoother struct {
	cfg ElevationConfig

	previous    float64
	hasPrevious bool

	// recent holds the last raw readings for pattern-based accuracy
	// estimation; accepted holds readings that passed the gate and feed
	// the trend detector.
	recent   []float64
	accepted []float64
}

// NewElevationSmoother returns a fresh smoother for one session.
func NewElevationSmoother(cfg ElevationConfig) (*ElevationSmoother, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ElevationSmoother{
		cfg:      cfg,
		recent:   make([]float64, 0, rawHistorySize),
		accepted: make([]float64, 0, cfg.TrendWindow),
	}, nil
}

// AddReading consumes one raw elevation plus the provider's vertical
// accuracy and returns the smoothed elevation. A negative verticalAccuracy
// means "unavailable": the smoother estimates one from the shape of recent
// changes instead.
func (s *ElevationSmoother) AddReading(elevation, verticalAccuracy float64) float64 {
	s.recent = append(s.recent, elevation)
	if len(s.recent) > rawHistorySize {
		s.recent = s.recent[1:]
	}

	accuracy := verticalAccuracy
	if accuracy < 0 {
		accuracy = s.estimateAccuracy()
	}

	value := elevation
	rejected := false
	if accuracy > s.cfg.VerticalAccuracyThreshold && s.hasPrevious {
		value = s.previous
		rejected = true
	}

	if !rejected {
		s.accepted = append(s.accepted, value)
		if len(s.accepted) > s.cfg.TrendWindow {
			s.accepted = s.accepted[1:]
		}
	}

	alpha := s.adaptiveAlpha()
	smoothed := value
	if s.hasPrevious {
		smoothed = alpha*value + (1-alpha)*s.previous
	}
	s.previous = smoothed
	s.hasPrevious = true
	return smoothed
}

// estimateAccuracy classifies the recent raw readings into one of the
// accuracy tiers above. With too little history it stays conservative.
func (s *ElevationSmoother) estimateAccuracy() float64 {
	if len(s.recent) < rawHistorySize {
		return accuracyUnknown
	}

	changes := make([]float64, 0, len(s.recent)-1)
	for i := 1; i < len(s.recent); i++ {
		changes = append(changes, s.recent[i]-s.recent[i-1])
	}

	// Reversal spike: two large consecutive changes in opposite directions.
	if n := len(changes); n >= 2 {
		last := changes[n-1]
		prev := changes[n-2]
		if abs(last) > s.cfg.SpikeReversalThreshold && abs(prev) > s.cfg.SpikeReversalThreshold &&
			((last > 0 && prev < 0) || (last < 0 && prev > 0)) {
			return accuracyReversal
		}
	}

	// Oscillating noise: three consecutive changes alternating direction.
	if len(changes) >= 3 {
		s0, s1, s2 := sign(changes[0]), sign(changes[1]), sign(changes[2])
		if s0 != 0 && s1 != 0 && s2 != 0 && s0 != s1 && s1 != s2 {
			return accuracyOscillation
		}
	}

	// Micro-jitter: tiny oscillation around a stable value.
	if len(s.recent) >= 5 {
		mean := 0.0
		for _, e := range s.recent {
			mean += e
		}
		mean /= float64(len(s.recent))
		maxDev := 0.0
		for _, e := range s.recent {
			if d := abs(e - mean); d > maxDev {
				maxDev = d
			}
		}
		if maxDev < 1.0 {
			return accuracyJitter
		}
	}

	return accuracyGood
}

// adaptiveAlpha maps trend strength and magnitude of the accepted readings
// onto [AlphaMin, AlphaMax].
func (s *ElevationSmoother) adaptiveAlpha() float64 {
	if len(s.accepted) < 3 {
		return s.cfg.AlphaMin
	}

	changes := make([]float64, 0, len(s.accepted)-1)
	for i := 1; i < len(s.accepted); i++ {
		changes = append(changes, s.accepted[i]-s.accepted[i-1])
	}

	positive, negative := 0, 0
	magnitude := 0.0
	for _, c := range changes {
		switch {
		case c > 0:
			positive++
		case c < 0:
			negative++
		}
		magnitude += abs(c)
	}
	nonZero := positive + negative
	if nonZero == 0 {
		return s.cfg.AlphaMin
	}

	majority := positive
	if negative > majority {
		majority = negative
	}
	trendStrength := float64(majority) / float64(nonZero)

	magnitudeBoost := magnitude / float64(len(changes)) / 2.0
	if magnitudeBoost > 1.0 {
		magnitudeBoost = 1.0
	}

	combined := (trendStrength + magnitudeBoost) / 2.0
	alpha := s.cfg.AlphaMin + combined*(s.cfg.AlphaMax-s.cfg.AlphaMin)
	if alpha < s.cfg.AlphaMin {
		alpha = s.cfg.AlphaMin
	}
	if alpha > s.cfg.AlphaMax {
		alpha = s.cfg.AlphaMax
	}
	return alpha
}

// Reset clears the smoother for a new session.
func (s *ElevationSmoother) Reset() {
	s.previous = 0
	s.hasPrevious = false
	s.recent = s.recent[:0]
	s.accepted = s.accepted[:0]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
