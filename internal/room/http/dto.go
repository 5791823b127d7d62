package http

import (
	"time"

	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

// WindowBody represents one weekday's opening hours. Open and close are
// fractional hours from local midnight, as published to clients (e.g. 9.5 for
// 09:30); internally the engine works in whole minutes.
type WindowBody struct {
	Weekday int     `json:"weekday" binding:"required,min=1,max=7"`
	Open    float64 `json:"open" binding:"min=0,max=24"`
	Close   float64 `json:"close" binding:"min=0,max=24"`
}

func (b WindowBody) toWindow() room.WeeklyWindow {
	return room.WeeklyWindow{
		Weekday:      b.Weekday,
		OpenMinutes:  int(b.Open * 60),
		CloseMinutes: int(b.Close * 60),
	}
}

func newWindowBody(w room.WeeklyWindow) WindowBody {
	return WindowBody{
		Weekday: w.Weekday,
		Open:    float64(w.OpenMinutes) / 60,
		Close:   float64(w.CloseMinutes) / 60,
	}
}

func toWindows(bodies []WindowBody) []room.WeeklyWindow {
	windows := make([]room.WeeklyWindow, len(bodies))
	for i, b := range bodies {
		windows[i] = b.toWindow()
	}
	return windows
}

type CreateRoomRequest struct {
	Name            string       `json:"name" binding:"required,max=200"`
	Description     string       `json:"description" binding:"omitempty,max=5000"`
	Location        string       `json:"location" binding:"omitempty,max=500"`
	Difficulty      int          `json:"difficulty" binding:"required,min=1,max=5"`
	IntervalMinutes int          `json:"interval_minutes" binding:"required,min=1"`
	MinParticipants int          `json:"min_participants" binding:"required,min=1"`
	MaxParticipants int          `json:"max_participants" binding:"required,min=1"`
	PricingMode     string       `json:"pricing_mode" binding:"required,oneof=flat per_person"`
	PriceMinorUnits int64        `json:"price_minor_units" binding:"min=0"`
	Currency        string       `json:"currency" binding:"required,len=3"`
	Timezone        string       `json:"timezone" binding:"required"`
	PaymentEnabled  bool         `json:"payment_enabled"`
	BusinessHours   []WindowBody `json:"business_hours" binding:"required,dive"`
}

type UpdateRoomRequest struct {
	Name            *string      `json:"name" binding:"omitempty,max=200"`
	Description     *string      `json:"description" binding:"omitempty,max=5000"`
	Location        *string      `json:"location" binding:"omitempty,max=500"`
	Difficulty      *int         `json:"difficulty" binding:"omitempty,min=1,max=5"`
	IntervalMinutes *int         `json:"interval_minutes" binding:"omitempty,min=1"`
	MinParticipants *int         `json:"min_participants" binding:"omitempty,min=1"`
	MaxParticipants *int         `json:"max_participants" binding:"omitempty,min=1"`
	PricingMode     *string      `json:"pricing_mode" binding:"omitempty,oneof=flat per_person"`
	PriceMinorUnits *int64       `json:"price_minor_units" binding:"omitempty,min=0"`
	Currency        *string      `json:"currency" binding:"omitempty,len=3"`
	Timezone        *string      `json:"timezone"`
	PaymentEnabled  *bool        `json:"payment_enabled"`
	BusinessHours   []WindowBody `json:"business_hours" binding:"omitempty,dive"`
}

type RoomResponse struct {
	ID              string       `json:"id"`
	OrganizationID  string       `json:"organization_id"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	Location        string       `json:"location,omitempty"`
	Difficulty      int          `json:"difficulty"`
	IntervalMinutes int          `json:"interval_minutes"`
	MinParticipants int          `json:"min_participants"`
	MaxParticipants int          `json:"max_participants"`
	PricingMode     string       `json:"pricing_mode"`
	PriceMinorUnits int64        `json:"price_minor_units"`
	Currency        string       `json:"currency"`
	Timezone        string       `json:"timezone"`
	PaymentEnabled  bool         `json:"payment_enabled"`
	BusinessHours   []WindowBody `json:"business_hours"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// RoomTag is a minimal room reference embedded in other responses.
type RoomTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewRoomResponse(rm *room.Room) RoomResponse {
	windows := rm.BusinessHours.Windows()
	hours := make([]WindowBody, len(windows))
	for i, w := range windows {
		hours[i] = newWindowBody(w)
	}

	return RoomResponse{
		ID:              rm.ID,
		OrganizationID:  rm.OrganizationID,
		Name:            rm.Name,
		Description:     rm.Description,
		Location:        rm.Location,
		Difficulty:      rm.Difficulty,
		IntervalMinutes: rm.IntervalMinutes,
		MinParticipants: rm.MinParticipants,
		MaxParticipants: rm.MaxParticipants,
		PricingMode:     string(rm.PricingMode),
		PriceMinorUnits: rm.PriceMinorUnits,
		Currency:        rm.Currency,
		Timezone:        rm.Timezone,
		PaymentEnabled:  rm.PaymentEnabled,
		BusinessHours:   hours,
		CreatedAt:       rm.CreatedAt,
		UpdatedAt:       rm.UpdatedAt,
	}
}
