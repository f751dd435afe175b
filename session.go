package glidetrack

import (
	"time"

	"github.com/marcward/glidetrack/loop"
	"github.com/marcward/glidetrack/smooth"
	"github.com/marcward/glidetrack/track"
)

// Sample is the display-ready result of processing one fix. Speeds are in
// the session's display unit, elevations in meters.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`

	SpeedRaw float64 `json:"speed_raw"`
	Speed    float64 `json:"speed"`

	ElevationRaw float64 `json:"elevation_raw_m"`
	Elevation    float64 `json:"elevation_m"`

	Bucket   Bucket `json:"bucket"`
	LapCount int    `json:"lap_count"`

	// Loop is non-nil only on the sample that completed a lap.
	Loop *track.Loop `json:"loop,omitempty"`
}

// Session processes one GPS session fix-by-fix. Fixes must arrive in
// non-decreasing timestamp order; a Session is not safe for concurrent use.
type Session struct {
	tuning      Tuning
	speedFactor float64

	velocity  *smooth.VelocitySmoother
	elevation *smooth.ElevationSmoother
	tracker   *loop.Tracker

	lastFix    track.Fix
	hasLastFix bool

	prevElevation    float64
	hasPrevElevation bool

	// Running aggregates for Summary.
	start, end     time.Time
	distanceMeters float64
	uphillMeters   float64
	downhillMeters float64
	bucketTime     map[Bucket]time.Duration
	speeds         []float64
	elevations     []float64
}

// NewSession returns a session using the given tuning.
func NewSession(t Tuning) (*Session, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	vel, err := smooth.NewVelocitySmoother(t.Velocity)
	if err != nil {
		return nil, err
	}
	elev, err := smooth.NewElevationSmoother(t.Elevation)
	if err != nil {
		return nil, err
	}
	return &Session{
		tuning:      t,
		speedFactor: t.SpeedFactor(),
		velocity:    vel,
		elevation:   elev,
		tracker:     loop.NewTracker(),
		bucketTime:  make(map[Bucket]time.Duration),
	}, nil
}

// ProcessFix runs one fix through both smoothers and the lap tracker and
// returns the display-ready sample. When the provider supplies no speed, the
// raw speed is derived from the distance and time to the previous fix.
func (s *Session) ProcessFix(f track.Fix) Sample {
	rawSpeed := s.rawDisplaySpeed(f)
	speed := s.velocity.AddReading(rawSpeed)
	elevation := s.elevation.AddReading(f.Altitude, f.VerticalAccuracy)

	delta := 0.0
	if s.hasPrevElevation {
		delta = elevation - s.prevElevation
	}
	bucket := classify(s.tuning.Buckets, speed, delta)

	var completed *track.Loop
	if _, ok := s.tracker.AddPoint(f); ok {
		loops := s.tracker.Loops()
		completed = &loops[len(loops)-1]
	}

	s.accumulate(f, speed, elevation, delta, bucket)

	return Sample{
		Timestamp:    f.Timestamp,
		Latitude:     f.Latitude,
		Longitude:    f.Longitude,
		SpeedRaw:     rawSpeed,
		Speed:        speed,
		ElevationRaw: f.Altitude,
		Elevation:    elevation,
		Bucket:       bucket,
		LapCount:     s.tracker.LoopCount(),
		Loop:         completed,
	}
}

// rawDisplaySpeed converts the provider speed to display units, deriving it
// from consecutive fix positions when the provider supplies none.
func (s *Session) rawDisplaySpeed(f track.Fix) float64 {
	mps := f.SpeedMPS
	if mps < 0 {
		mps = 0
		if s.hasLastFix {
			if dt := f.Timestamp.Sub(s.lastFix.Timestamp).Seconds(); dt > 0 {
				mps = track.Distance(s.lastFix, f) / dt
			}
		}
	}
	return mps * s.speedFactor
}

func (s *Session) accumulate(f track.Fix, speed, elevation, delta float64, bucket Bucket) {
	if s.start.IsZero() {
		s.start = f.Timestamp
	}
	s.end = f.Timestamp

	if s.hasLastFix {
		s.distanceMeters += track.Distance(s.lastFix, f)
		s.bucketTime[bucket] += f.Timestamp.Sub(s.lastFix.Timestamp)
	}
	if delta >= 0 {
		s.uphillMeters += delta
	} else {
		s.downhillMeters += -delta
	}

	s.speeds = append(s.speeds, speed)
	s.elevations = append(s.elevations, elevation)

	s.lastFix = f
	s.hasLastFix = true
	s.prevElevation = elevation
	s.hasPrevElevation = true
}

// LapCount returns the confirmed lap total so far.
func (s *Session) LapCount() int {
	return s.tracker.LoopCount()
}

// Loops returns a copy of the confirmed loop records in detection order.
func (s *Session) Loops() []track.Loop {
	return s.tracker.Loops()
}

// Units returns the session's display unit system.
func (s *Session) Units() string {
	return s.tuning.Units
}

// Reset clears all per-session state, including detected loops, so the same
// tuning can process a fresh session.
func (s *Session) Reset() {
	s.velocity.Reset()
	s.elevation.Reset()
	s.tracker = loop.NewTracker()
	s.hasLastFix = false
	s.hasPrevElevation = false
	s.start = time.Time{}
	s.end = time.Time{}
	s.distanceMeters = 0
	s.uphillMeters = 0
	s.downhillMeters = 0
	s.bucketTime = make(map[Bucket]time.Duration)
	s.speeds = nil
	s.elevations = nil
}
