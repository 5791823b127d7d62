package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, apperror.KindNotFound, "booking not found")
	ErrRoomNotFound        = apperror.New(http.StatusNotFound, apperror.KindNotFound, "escape room not found")
	ErrInvalidTimeRange    = apperror.New(http.StatusBadRequest, apperror.KindValidation, "start time must be before end time")
	ErrInvalidInterval     = apperror.New(http.StatusBadRequest, apperror.KindConstraint, "booking length must match the room interval")
	ErrInvalidParticipants = apperror.New(http.StatusBadRequest, apperror.KindConstraint, "participants outside the room's allowed range")
	ErrTimeConflict        = apperror.New(http.StatusConflict, apperror.KindConflict, "a booking already exists at this time")
	ErrDateRangeTooLarge   = apperror.New(http.StatusBadRequest, apperror.KindConstraint, "date range is too big")
	ErrInvalidTransition   = apperror.New(http.StatusConflict, apperror.KindState, "booking is not in a valid state for this action")
	ErrPermissionDenied    = apperror.New(http.StatusForbidden, apperror.KindValidation, "permission denied")
	ErrMissingPaymentToken = apperror.New(http.StatusBadRequest, apperror.KindPayment, "missing payment token")
	ErrPaymentNotEnabled   = apperror.New(http.StatusBadRequest, apperror.KindPayment, "payments are not configured for this escape room")
)

// Status is the booking lifecycle state.
//
// PENDING is the normal initial state. ACCEPTED is entered either by operator
// action or directly at creation when the booking was paid for. REJECTED and
// CANCELED are terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// Booking is a customer's reservation of one slot. Times are stored as UTC
// instants; only Accepted bookings take part in the mutual-exclusion
// invariant.
type Booking struct {
	ID              string
	RoomID          string
	RoomName        string
	OrganizationID  string
	StartTime       time.Time
	EndTime         time.Time
	Name            string
	Email           string
	PhoneNumber     string
	Comment         *string
	Participants    int
	Status          Status
	PriceMinorUnits int64
	Currency        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	RoomID         string
	OrganizationID string
	Statuses       []Status
	// From/To select bookings whose interval intersects [From, To), matching
	// the operator dashboard's "what is relevant in this period" view.
	From *time.Time
	To   *time.Time
	// CreatedFrom/CreatedTo filter on creation time instead, used by the
	// historical earnings view.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}
