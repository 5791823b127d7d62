package booking

import (
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

const (
	// MaxAvailabilityDays caps the span of a single availability query.
	MaxAvailabilityDays = 35
	// MaxOrganizationRangeDays caps the span of the cross-room booking
	// listing on the organization dashboard (six weeks).
	MaxOrganizationRangeDays = 7 * 6
)

// DayAvailability is one day's bookable slots, ordered by start time.
type DayAvailability struct {
	Date  time.Time  `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

// CalculateAvailability derives the bookable slots for each day in [from, to).
//
// Days are resolved in the room's configured timezone. A slot survives only if
// it starts strictly after now (the in-progress slot is not bookable) and does
// not overlap an Accepted booking. Days that are closed, fully in the past or
// left without slots are elided from the result rather than returned empty.
func CalculateAvailability(rm *room.Room, from, to time.Time, accepted []*Booking, now time.Time) ([]DayAvailability, error) {
	loc, err := rm.TimeLocation()
	if err != nil {
		return nil, err
	}

	fromDay := startOfDay(from, loc)
	toDay := startOfDay(to, loc)

	days := calendarDaysBetween(fromDay, toDay)
	if days < 0 {
		return nil, ErrInvalidTimeRange
	}
	if days > MaxAvailabilityDays {
		return nil, ErrDateRangeTooLarge
	}

	index := NewOverlapIndex(accepted)

	var availability []DayAvailability
	for i := 0; i < days; i++ {
		day := fromDay.AddDate(0, 0, i)

		window, open := rm.BusinessHours.Window(room.ISOWeekday(day))
		if !open {
			continue
		}

		var free []TimeSlot
		for _, slot := range GenerateSlots(day, window, rm.IntervalMinutes, loc) {
			if !slot.Start.After(now) {
				continue
			}
			if index.Conflicts(slot) {
				continue
			}
			free = append(free, slot)
		}

		if len(free) > 0 {
			availability = append(availability, DayAvailability{Date: day, Slots: free})
		}
	}

	return availability, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// calendarDaysBetween counts calendar days from a to b; both must be local
// midnights in the same location. Rounding absorbs DST days that run 23 or
// 25 hours.
func calendarDaysBetween(a, b time.Time) int {
	if b.Before(a) {
		return -1
	}
	return int((b.Sub(a) + 12*time.Hour) / (24 * time.Hour))
}
