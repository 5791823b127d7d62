package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Guests book and look up their reservation without an account.
	g.GET("/rooms/:id/availability", h.Availability)
	g.POST("/rooms/:id/bookings", h.Create)
	g.GET("/bookings/:id", h.Get)

	// Operator dashboard.
	g.GET("/rooms/:id/bookings", authMiddleware, h.ListByRoom)
	g.GET("/organizations/:id/bookings", authMiddleware, h.ListByOrganization)
	g.PUT("/bookings/:id/accept", authMiddleware, h.Accept)
	g.PUT("/bookings/:id/reject", authMiddleware, h.Reject)
	g.PUT("/bookings/:id/cancel", authMiddleware, h.Cancel)
}
