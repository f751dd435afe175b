package gpx

import (
	"fmt"
	"io"
	"time"
)

// DefaultInterval is the resampling cadence used when none is given.
const DefaultInterval = 10 * time.Second

// Interpolate returns a copy of the document with every segment resampled so
// that no two consecutive timestamped points are further apart than interval.
// Inserted points are placed by linear time-based interpolation of position
// and elevation. Pairs with missing time data are carried through unchanged;
// a warning per pair goes to warnings when non-nil.
func Interpolate(g *GPX, interval time.Duration, warnings io.Writer) *GPX {
	if interval <= 0 {
		interval = DefaultInterval
	}

	out := *g
	out.Tracks = make([]Track, len(g.Tracks))
	for ti, trk := range g.Tracks {
		nt := trk
		nt.Segments = make([]Segment, len(trk.Segments))
		for si, seg := range trk.Segments {
			ns := seg
			ns.Points = interpolateSegment(seg.Points, interval, warnings)
			nt.Segments[si] = ns
		}
		out.Tracks[ti] = nt
	}
	return &out
}

func interpolateSegment(points []Point, interval time.Duration, warnings io.Writer) []Point {
	if len(points) == 0 {
		return nil
	}

	out := make([]Point, 0, len(points))
	for i := 0; i < len(points)-1; i++ {
		p1 := points[i]
		p2 := points[i+1]
		out = append(out, p1)

		if p1.Time.IsZero() || p2.Time.IsZero() {
			if warnings != nil {
				fmt.Fprintf(warnings, "warning: skipping interpolation at %.6f/%.6f: missing time data\n", p1.Lat, p1.Lon)
			}
			continue
		}

		gap := p2.Time.Sub(p1.Time)
		if gap <= interval {
			continue
		}

		for cur := p1.Time.Add(interval); cur.Before(p2.Time); cur = cur.Add(interval) {
			t := cur.Sub(p1.Time).Seconds() / gap.Seconds()
			out = append(out, Point{
				Lat:       p1.Lat + (p2.Lat-p1.Lat)*t,
				Lon:       p1.Lon + (p2.Lon-p1.Lon)*t,
				Elevation: p1.Elevation + (p2.Elevation-p1.Elevation)*t,
				Time:      cur,
			})
		}
	}
	return append(out, points[len(points)-1])
}
