package interval

import "time"

// Interval represents a booking time span. The booking domain treats both
// endpoints as part of the interval when testing for overlap: a candidate
// that starts exactly when an existing booking ends still collides with it.
// Back-to-back bookings are therefore rejected; callers relying on this
// package must not "fix" the boundary to half-open semantics.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New constructs an interval from the supplied endpoints.
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// IsValid reports whether the interval is well formed, i.e. the end instant
// lies strictly after the start instant.
func (iv Interval) IsValid() bool {
	return iv.End.After(iv.Start)
}

// Contains reports whether the instant falls within the closed interval
// [Start, End]. Both endpoints count as inside.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// Encloses reports whether the receiver fully covers the other interval,
// endpoints included.
func (iv Interval) Encloses(other Interval) bool {
	return !iv.Start.After(other.Start) && !iv.End.Before(other.End)
}

// Overlaps reports whether the receiver collides with an existing interval
// under the closed-boundary rule: either endpoint of the receiver lies
// within the existing interval, or the receiver encloses it entirely.
func (iv Interval) Overlaps(existing Interval) bool {
	if existing.Contains(iv.Start) {
		return true
	}
	if existing.Contains(iv.End) {
		return true
	}
	return iv.Encloses(existing)
}
