package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/escape-room-backend/internal/auth"
	"github.com/nekogravitycat/escape-room-backend/internal/booking"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return "", false
	}
	return id, true
}

// parseRange turns from/to date params into a half-open UTC window. The `to`
// date is inclusive on the wire, so the upper bound moves one day forward.
func parseRange(c *gin.Context, q RangeQuery) (time.Time, time.Time, bool) {
	from, err := time.Parse(dateLayout, q.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(dateLayout, q.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	return from, to.AddDate(0, 0, 1), true
}

// Create takes a guest's booking request. Public.
func (h *Handler) Create(c *gin.Context) {
	roomID, ok := parseID(c)
	if !ok {
		return
	}

	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		RoomID:       roomID,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Name:         body.Name,
		Email:        body.Email,
		PhoneNumber:  body.PhoneNumber,
		Comment:      body.Comment,
		Participants: body.Participants,
		PaymentToken: body.PaymentToken,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Get returns a single booking. Public: the id acts as the guest's claim
// ticket.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Availability returns the bookable slots per day. Public.
func (h *Handler) Availability(c *gin.Context) {
	roomID, ok := parseID(c)
	if !ok {
		return
	}

	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}
	from, to, ok := parseRange(c, q)
	if !ok {
		return
	}

	days, err := h.service.Availability(c.Request.Context(), roomID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": NewAvailabilityResponse(days)})
}

// ListByRoom returns an operator's bookings for one room.
func (h *Handler) ListByRoom(c *gin.Context) {
	roomID, ok := parseID(c)
	if !ok {
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}
	from, to, ok := parseRange(c, q.RangeQuery)
	if !ok {
		return
	}

	bookings, total, err := h.service.ListByRoom(c.Request.Context(), booking.RoomListRequest{
		RoomID:   roomID,
		From:     from,
		To:       to,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

// ListByOrganization returns bookings across all of an organization's rooms.
func (h *Handler) ListByOrganization(c *gin.Context) {
	orgID, ok := parseID(c)
	if !ok {
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}
	from, to, ok := parseRange(c, q.RangeQuery)
	if !ok {
		return
	}

	bookings, total, err := h.service.ListByOrganization(c.Request.Context(), booking.OrganizationListRequest{
		OrganizationID: orgID,
		Select:         q.Select,
		From:           from,
		To:             to,
		Page:           q.Page,
		PageSize:       q.PageSize,
	}, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

// Accept confirms a pending booking.
func (h *Handler) Accept(c *gin.Context) {
	h.statusAction(c, h.service.Accept)
}

// Reject declines a pending booking.
func (h *Handler) Reject(c *gin.Context) {
	h.statusAction(c, h.service.Reject)
}

// Cancel withdraws a previously accepted booking.
func (h *Handler) Cancel(c *gin.Context) {
	h.statusAction(c, h.service.Cancel)
}

func (h *Handler) statusAction(c *gin.Context, action func(ctx context.Context, id, callerUserID string) (*booking.Booking, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := action(c.Request.Context(), id, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}
