// Package track defines the shared data model for one GPS session: the raw
// Fix samples produced by a location provider and the Loop records emitted
// when a repeated path is recognized.
package track

import (
	"time"

	"github.com/marcward/glidetrack/geo"
)

// Fix is one GPS sample as delivered by the location provider. Fixes are
// immutable once ingested; no component mutates them.
type Fix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude_m"`
	Timestamp time.Time `json:"timestamp"`

	// SpeedMPS is the provider-reported ground speed in m/s. Negative means
	// the provider did not supply one.
	SpeedMPS float64 `json:"speed_mps"`

	// Accuracy estimates in meters. Negative means unavailable.
	HorizontalAccuracy float64 `json:"horizontal_accuracy_m"`
	VerticalAccuracy   float64 `json:"vertical_accuracy_m"`
}

// Loop is one confirmed circuit of the session's repeated path. Loops are
// created once, never mutated, and live for the session's lifetime.
type Loop struct {
	ID               int           `json:"id"`
	Points           []Fix         `json:"points"`
	SimplifiedPoints []Fix         `json:"simplified_points"`
	DistanceMeters   float64       `json:"distance_m"`
	Duration         time.Duration `json:"duration_ns"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
}

// PathDistance sums the great-circle distance over consecutive fixes.
func PathDistance(points []Fix) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += geo.Haversine(
			points[i-1].Latitude, points[i-1].Longitude,
			points[i].Latitude, points[i].Longitude)
	}
	return total
}

// Distance returns the great-circle distance in meters between two fixes.
func Distance(a, b Fix) float64 {
	return geo.Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}
