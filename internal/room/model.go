package room

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, apperror.KindNotFound, "escape room not found")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, apperror.KindValidation, "room name is required")
	ErrInvalidInterval     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "interval must be a positive number of minutes")
	ErrInvalidParticipants = apperror.New(http.StatusBadRequest, apperror.KindValidation, "participant range is invalid")
	ErrInvalidPricing      = apperror.New(http.StatusBadRequest, apperror.KindValidation, "pricing mode or price is invalid")
	ErrInvalidTimezone     = apperror.New(http.StatusBadRequest, apperror.KindValidation, "unknown timezone")
	ErrInvalidDifficulty   = apperror.New(http.StatusBadRequest, apperror.KindValidation, "difficulty must be between 1 and 5")
	ErrPermissionDenied    = apperror.New(http.StatusForbidden, apperror.KindValidation, "permission denied")
)

// PricingMode determines how a booking's price is derived from the room price.
type PricingMode string

const (
	PricingFlat      PricingMode = "flat"
	PricingPerPerson PricingMode = "per_person"
)

// Room is a bookable escape room: a fixed-length experience with a capacity
// range, recurring weekly hours in the room's local timezone, and a price.
type Room struct {
	ID              string
	OrganizationID  string
	Name            string
	Description     string
	Location        string
	Difficulty      int // 1..5
	IntervalMinutes int
	MinParticipants int
	MaxParticipants int
	PricingMode     PricingMode
	PriceMinorUnits int64 // price in the currency's minor units (e.g. cents)
	Currency        string
	Timezone        string
	PaymentEnabled  bool
	BusinessHours   WeekSchedule
	Deleted         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TimeLocation resolves the room's configured timezone.
func (r *Room) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}
