package schedule

import "time"

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Valid reports whether the interval has positive length.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals intersect.
// Touching at a boundary is not an overlap, so back-to-back
// intervals never conflict.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// ClipTo bounds the interval to [start, end). The result may be
// empty (not Valid) when the interval lies outside the bounds.
func (i Interval) ClipTo(start, end time.Time) Interval {
	out := i
	if out.Start.Before(start) {
		out.Start = start
	}
	if out.End.After(end) {
		out.End = end
	}
	return out
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
