package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Room discovery is public: end customers browse rooms without accounts.
	g.GET("/organizations/:id/rooms", h.List)
	g.GET("/rooms/:id", h.Get)

	// Management requires an operator token.
	g.POST("/organizations/:id/rooms", authMiddleware, h.Create)
	g.PATCH("/rooms/:id", authMiddleware, h.Update)
	g.DELETE("/rooms/:id", authMiddleware, h.Delete)
}
