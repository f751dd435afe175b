// Package loop detects repeated circuits in a live GPS fix stream. A
// Tracker first hunts for the session's initial self-intersection, then
// counts every later pass over the same course as a lap, requiring each lap
// to match the reference loop's shape.
package loop

import (
	"fmt"
	"time"

	"github.com/marcward/glidetrack/track"
)

const (
	// loopStartThresholdMeters is how close the stream must return to an
	// earlier point to close the first loop.
	loopStartThresholdMeters = 20.0

	// lapThresholdMeters is how close the stream must come to the lap point
	// to close a subsequent lap. Slightly looser than the start threshold
	// since lap crossings drift more than the initial closure.
	lapThresholdMeters = 25.0

	// minCandidateAge excludes trivially recent points from first-loop
	// candidacy; consecutive samples are always near each other.
	minCandidateAge = 30 * time.Second

	// minLoopDuration and minLoopDistanceMeters reject jitter "loops"
	// produced while standing still.
	minLoopDuration       = 30 * time.Second
	minLoopDistanceMeters = 100.0
)

type phase int

const (
	detectingFirst phase = iota
	trackingLaps
)

// Tracker is the per-session lap detector. It is strictly sequential: fixes
// must arrive in non-decreasing timestamp order and calls must be externally
// serialized. Once the first loop is found the tracker never returns to the
// detection phase.
type Tracker struct {
	phase phase

	all   []track.Fix
	index *spatialIndex

	// reference is the first detected loop; every later lap must match its
	// shape. lapPoint is where laps are considered closed.
	reference *track.Loop
	lapPoint  track.Fix

	// currentStart indexes into all where the lap in progress began.
	currentStart int

	loops []track.Loop
}

// NewTracker returns an empty tracker in the detection phase.
func NewTracker() *Tracker {
	return &Tracker{index: newSpatialIndex()}
}

// AddPoint feeds one fix into the detector. When the fix completes the
// first loop or a subsequent lap, it returns the new total lap count and
// true; otherwise it returns 0 and false. Every non-lap outcome, including
// shape mismatches and too-short candidates, is a normal "not yet".
//
// Feeding a fix older than its predecessor is a programmer error and panics.
func (t *Tracker) AddPoint(fix track.Fix) (int, bool) {
	if n := len(t.all); n > 0 && fix.Timestamp.Before(t.all[n-1].Timestamp) {
		panic(fmt.Sprintf("loop: fix timestamp %v precedes previous %v",
			fix.Timestamp, t.all[n-1].Timestamp))
	}

	t.all = append(t.all, fix)
	seq := len(t.all) - 1
	t.index.insert(fix, seq)

	if t.phase == detectingFirst {
		return t.detectFirstLoop(fix, seq)
	}
	return t.detectLap(fix, seq)
}

// detectFirstLoop checks whether the newest fix closes a loop against any
// sufficiently old earlier point.
func (t *Tracker) detectFirstLoop(fix track.Fix, seq int) (int, bool) {
	for _, cand := range t.index.nearby(fix) {
		if fix.Timestamp.Sub(t.all[cand].Timestamp) < minCandidateAge {
			continue
		}
		if track.Distance(fix, t.all[cand]) > loopStartThresholdMeters {
			continue
		}

		points := t.all[cand : seq+1]
		if !isValidLoop(points) {
			return 0, false
		}

		lp := t.buildLoop(points)
		t.loops = append(t.loops, lp)
		t.reference = &t.loops[0]
		t.lapPoint = t.all[cand]
		t.currentStart = seq
		t.phase = trackingLaps
		return len(t.loops), true
	}
	return 0, false
}

// detectLap checks whether the newest fix closes another pass over the
// reference loop.
func (t *Tracker) detectLap(fix track.Fix, seq int) (int, bool) {
	if track.Distance(fix, t.lapPoint) > lapThresholdMeters {
		return 0, false
	}

	points := t.all[t.currentStart : seq+1]
	if !isValidLoop(points) {
		return 0, false
	}
	if !similarShape(points, t.reference.Points) {
		return 0, false
	}

	t.loops = append(t.loops, t.buildLoop(points))
	t.currentStart = seq
	return len(t.loops), true
}

// isValidLoop rejects candidates too short in time or distance to be a real
// circuit, such as GPS jitter around a stationary point.
func isValidLoop(points []track.Fix) bool {
	if len(points) < 2 {
		return false
	}
	duration := points[len(points)-1].Timestamp.Sub(points[0].Timestamp)
	if duration < minLoopDuration {
		return false
	}
	return track.PathDistance(points) >= minLoopDistanceMeters
}

// buildLoop copies the candidate points into an immutable Loop record.
func (t *Tracker) buildLoop(points []track.Fix) track.Loop {
	owned := append([]track.Fix(nil), points...)
	return track.Loop{
		ID:               len(t.loops) + 1,
		Points:           owned,
		SimplifiedPoints: Simplify(owned, simplifyEpsilonMeters),
		DistanceMeters:   track.PathDistance(owned),
		Duration:         owned[len(owned)-1].Timestamp.Sub(owned[0].Timestamp),
		StartTime:        owned[0].Timestamp,
		EndTime:          owned[len(owned)-1].Timestamp,
	}
}

// LoopCount returns how many loops have been confirmed, counting the
// reference loop as the first lap.
func (t *Tracker) LoopCount() int {
	return len(t.loops)
}

// Loops returns a copy of the confirmed loop records in detection order.
func (t *Tracker) Loops() []track.Loop {
	return append([]track.Loop(nil), t.loops...)
}

// PointCount returns how many fixes the tracker has ingested.
func (t *Tracker) PointCount() int {
	return len(t.all)
}
