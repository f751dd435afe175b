package gpx

import (
	"sort"

	"github.com/marcward/glidetrack/track"
)

// Fixes flattens all tracks and segments into the engine's fix stream,
// sorted by timestamp. GPX carries neither speed nor accuracy estimates, so
// those fields are marked unavailable and left for the session to derive.
func (g *GPX) Fixes() []track.Fix {
	var out []track.Fix
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				out = append(out, track.Fix{
					Latitude:           p.Lat,
					Longitude:          p.Lon,
					Altitude:           p.Elevation,
					Timestamp:          p.Time,
					SpeedMPS:           -1,
					HorizontalAccuracy: -1,
					VerticalAccuracy:   -1,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
