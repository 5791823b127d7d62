package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/escape-room-backend/internal/auth"
	"github.com/nekogravitycat/escape-room-backend/internal/pkg/response"
	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

type Handler struct {
	service room.Service
}

func NewHandler(service room.Service) *Handler {
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

// Create publishes a new room under an organization.
func (h *Handler) Create(c *gin.Context) {
	orgID, ok := parseID(c)
	if !ok {
		return
	}

	var body CreateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rm, err := h.service.Create(c.Request.Context(), room.CreateRequest{
		OrganizationID:  orgID,
		Name:            body.Name,
		Description:     body.Description,
		Location:        body.Location,
		Difficulty:      body.Difficulty,
		IntervalMinutes: body.IntervalMinutes,
		MinParticipants: body.MinParticipants,
		MaxParticipants: body.MaxParticipants,
		PricingMode:     room.PricingMode(body.PricingMode),
		PriceMinorUnits: body.PriceMinorUnits,
		Currency:        body.Currency,
		Timezone:        body.Timezone,
		PaymentEnabled:  body.PaymentEnabled,
		BusinessHours:   toWindows(body.BusinessHours),
	}, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRoomResponse(rm))
}

// List returns all non-deleted rooms of an organization. Public.
func (h *Handler) List(c *gin.Context) {
	orgID, ok := parseID(c)
	if !ok {
		return
	}

	rooms, err := h.service.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RoomResponse, len(rooms))
	for i, rm := range rooms {
		items[i] = NewRoomResponse(rm)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Get returns a single room. Public.
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rm, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(rm))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body UpdateRoomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := room.UpdateRequest{
		Name:            body.Name,
		Description:     body.Description,
		Location:        body.Location,
		Difficulty:      body.Difficulty,
		IntervalMinutes: body.IntervalMinutes,
		MinParticipants: body.MinParticipants,
		MaxParticipants: body.MaxParticipants,
		PriceMinorUnits: body.PriceMinorUnits,
		Currency:        body.Currency,
		Timezone:        body.Timezone,
		PaymentEnabled:  body.PaymentEnabled,
	}
	if body.PricingMode != nil {
		mode := room.PricingMode(*body.PricingMode)
		req.PricingMode = &mode
	}
	if body.BusinessHours != nil {
		req.BusinessHours = toWindows(body.BusinessHours)
	}

	rm, err := h.service.Update(c.Request.Context(), id, req, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomResponse(rm))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
