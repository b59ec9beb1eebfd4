package schedule

import (
	"sort"
	"time"
)

// DefaultSlotDuration applies when no service is given or the service
// has no duration configured.
const DefaultSlotDuration = 30 * time.Minute

// AnyStaffName labels slots emitted from windows without an assignee.
const AnyStaffName = "Any"

// WindowSpan is an availability window prepared for slot generation.
type WindowSpan struct {
	Staff     StaffRef
	StaffName string
	Interval  Interval
}

// Busy is an occupied span. Cancelled appointments must be filtered
// out before they get here.
type Busy struct {
	Staff    StaffRef
	Interval Interval
}

// Slot is a bookable candidate derived from a window. It is never
// persisted.
type Slot struct {
	StaffID   uint      `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// BuildSlots discretizes each window into back-to-back slots of the
// given duration, clipped to [dayStart, dayEnd), and drops slots that
// overlap a busy span for the window's exact staff identity. Slots are
// aligned to the clipped window start, not to wall-clock round times.
//
// The output is sorted by start time, then staff name, so it is a pure
// function of its inputs regardless of window ordering.
func BuildSlots(windows []WindowSpan, busy []Busy, duration time.Duration, dayStart, dayEnd time.Time) []Slot {
	if duration <= 0 {
		duration = DefaultSlotDuration
	}

	slots := []Slot{}
	for _, w := range windows {
		span := w.Interval.ClipTo(dayStart, dayEnd)
		if !span.Valid() {
			continue
		}

		name := w.StaffName
		if name == "" {
			name = AnyStaffName
		}
		id, _ := w.Staff.ID()

		for cur := span.Start; !cur.Add(duration).After(span.End); cur = cur.Add(duration) {
			candidate := NewInterval(cur, cur.Add(duration))
			if isBusy(w.Staff, candidate, busy) {
				continue
			}
			slots = append(slots, Slot{
				StaffID:   id,
				StaffName: name,
				Start:     candidate.Start,
				End:       candidate.End,
			})
		}
	}

	sort.SliceStable(slots, func(a, b int) bool {
		if !slots[a].Start.Equal(slots[b].Start) {
			return slots[a].Start.Before(slots[b].Start)
		}
		return slots[a].StaffName < slots[b].StaffName
	})

	return slots
}

func isBusy(staff StaffRef, candidate Interval, busy []Busy) bool {
	for _, b := range busy {
		if staff.SameIdentity(b.Staff) && candidate.Overlaps(b.Interval) {
			return true
		}
	}
	return false
}

// DayBounds returns [midnight, midnight+24h) for the day containing t,
// in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}
