package booking

import (
	"sort"
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

// TimeSlot is a candidate bookable interval. Start and End are UTC instants;
// the interval is half-open, so slots touching at an endpoint do not overlap.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
func (s TimeSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}

// GenerateSlots expands one local calendar day's opening window into whole
// interval-sized slots. day must be midnight of the target day in loc. Each
// slot boundary is materialized in the room's timezone and normalized to UTC,
// so a DST shift lands on the wall-clock times the schedule promises. A
// trailing window remainder shorter than the interval is discarded.
func GenerateSlots(day time.Time, window room.WeeklyWindow, intervalMinutes int, loc *time.Location) []TimeSlot {
	if intervalMinutes <= 0 {
		return nil
	}

	year, month, dom := day.Date()

	var slots []TimeSlot
	for offset := window.OpenMinutes; offset+intervalMinutes <= window.CloseMinutes; offset += intervalMinutes {
		start := time.Date(year, month, dom, 0, offset, 0, 0, loc)
		end := time.Date(year, month, dom, 0, offset+intervalMinutes, 0, 0, loc)
		slots = append(slots, TimeSlot{Start: start.UTC(), End: end.UTC()})
	}
	return slots
}

// OverlapIndex answers conflict queries against a fixed set of bookings.
// Intervals are sorted by start once at construction; a conflict probe is a
// binary search over the starts plus a running maximum of the ends, so it
// stays correct for unsorted and mutually overlapping input.
type OverlapIndex struct {
	intervals []TimeSlot
	maxEnd    []time.Time // maxEnd[i] = max End of intervals[0..i]
}

// NewOverlapIndex builds an index over the given bookings. Callers are
// responsible for restricting the input to the statuses that matter
// (normally only Accepted bookings block slots).
func NewOverlapIndex(bookings []*Booking) *OverlapIndex {
	intervals := make([]TimeSlot, len(bookings))
	for i, b := range bookings {
		intervals[i] = TimeSlot{Start: b.StartTime, End: b.EndTime}
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start.Before(intervals[j].Start) })

	maxEnd := make([]time.Time, len(intervals))
	for i, iv := range intervals {
		maxEnd[i] = iv.End
		if i > 0 && maxEnd[i-1].After(iv.End) {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &OverlapIndex{intervals: intervals, maxEnd: maxEnd}
}

// Conflicts reports whether the candidate slot overlaps any indexed booking.
func (x *OverlapIndex) Conflicts(candidate TimeSlot) bool {
	// First interval starting at or after the candidate's end; everything
	// from there on starts too late to overlap.
	n := sort.Search(len(x.intervals), func(i int) bool {
		return !x.intervals[i].Start.Before(candidate.End)
	})
	if n == 0 {
		return false
	}
	return x.maxEnd[n-1].After(candidate.Start)
}
