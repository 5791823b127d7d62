package http

import (
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/booking"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/request"
)

// dateLayout is the wire format for availability and listing query bounds.
// Bounds are dates, not instants; the service resolves them against the
// room's timezone.
const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	Name         string    `json:"name" binding:"required,max=100"`
	Email        string    `json:"email" binding:"required,email"`
	PhoneNumber  string    `json:"phone_number" binding:"required,max=30"`
	Comment      *string   `json:"comment" binding:"omitempty,max=500"`
	Participants int       `json:"participants" binding:"required,min=1"`
	PaymentToken *string   `json:"payment_token"`
}

type RangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type ListQuery struct {
	RangeQuery
	request.ListParams
	Select string `form:"select" binding:"omitempty,oneof=upcoming historical"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	RoomID          string    `json:"room_id"`
	RoomName        string    `json:"room_name"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phone_number"`
	Comment         *string   `json:"comment,omitempty"`
	Participants    int       `json:"participants"`
	Status          string    `json:"status"`
	PriceMinorUnits int64     `json:"price_minor_units"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		RoomID:          b.RoomID,
		RoomName:        b.RoomName,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Name:            b.Name,
		Email:           b.Email,
		PhoneNumber:     b.PhoneNumber,
		Comment:         b.Comment,
		Participants:    b.Participants,
		Status:          string(b.Status),
		PriceMinorUnits: b.PriceMinorUnits,
		Currency:        b.Currency,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

type AvailabilityDayResponse struct {
	Date  string             `json:"date"`
	Slots []booking.TimeSlot `json:"slots"`
}

func NewAvailabilityResponse(days []booking.DayAvailability) []AvailabilityDayResponse {
	out := make([]AvailabilityDayResponse, len(days))
	for i, d := range days {
		out[i] = AvailabilityDayResponse{
			Date:  d.Date.Format(dateLayout),
			Slots: d.Slots,
		}
	}
	return out
}
