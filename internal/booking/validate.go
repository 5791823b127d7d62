package booking

import (
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

// ValidateRequest checks a booking request against the room's rules before it
// reaches the database: a well-formed interval, a duration matching the room's
// configured slot length, and a group size within the room's bounds.
//
// Containment in business hours and alignment to the generated slot grid are
// not checked here; overlap with accepted bookings is the deciding constraint
// and is enforced at persistence time.
func ValidateRequest(rm *room.Room, start, end time.Time, participants int) error {
	if !start.Before(end) {
		return ErrInvalidTimeRange
	}
	if end.Sub(start) != time.Duration(rm.IntervalMinutes)*time.Minute {
		return ErrInvalidInterval
	}
	if participants < rm.MinParticipants || participants > rm.MaxParticipants {
		return ErrInvalidParticipants
	}
	return nil
}
