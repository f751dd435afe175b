// Package fitio decodes FIT activity files into the engine's fix stream.
package fitio

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/tormoder/fit"

	"github.com/marcward/glidetrack/track"
)

// ReadFile decodes the FIT activity at path and returns its positioned
// records as fixes in timestamp order. Records without a valid position or
// timestamp are skipped; an activity with no usable records is an error.
func ReadFile(path string) ([]track.Fix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fit file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode fit file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("read activity: %w", err)
	}

	fixes := make([]track.Fix, 0, len(activity.Records))
	for _, rec := range activity.Records {
		if rec == nil {
			continue
		}
		ts := validTimeOrZero(rec.Timestamp)
		if ts.IsZero() {
			continue
		}
		lat := rec.PositionLat.Degrees()
		lon := rec.PositionLong.Degrees()
		if !isFinite(lat) || !isFinite(lon) {
			continue
		}

		fixes = append(fixes, track.Fix{
			Latitude:           lat,
			Longitude:          lon,
			Altitude:           extractAltitude(rec),
			Timestamp:          ts,
			SpeedMPS:           extractSpeed(rec),
			HorizontalAccuracy: gpsAccuracy(rec),
			VerticalAccuracy:   -1,
		})
	}
	if len(fixes) == 0 {
		return nil, fmt.Errorf("no positioned records in %s", path)
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		return fixes[i].Timestamp.Before(fixes[j].Timestamp)
	})
	return fixes, nil
}

func extractSpeed(rec *fit.RecordMsg) float64 {
	speed := rec.GetEnhancedSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed
	}
	speed = rec.GetSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed
	}
	return -1
}

func extractAltitude(rec *fit.RecordMsg) float64 {
	alt := rec.GetEnhancedAltitudeScaled()
	if isFinite(alt) {
		return alt
	}
	alt = rec.GetAltitudeScaled()
	if isFinite(alt) {
		return alt
	}
	return 0
}

func gpsAccuracy(rec *fit.RecordMsg) float64 {
	if rec.GpsAccuracy == math.MaxUint8 {
		return -1
	}
	return float64(rec.GpsAccuracy)
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
