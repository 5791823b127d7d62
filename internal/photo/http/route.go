package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/rooms/:id/photos", h.List)
	g.GET("/photos/:id", h.Serve)
	g.GET("/photos/:id/thumbnail", h.ServeThumbnail)

	g.POST("/rooms/:id/photos", authMiddleware, h.Upload)
	g.DELETE("/photos/:id", authMiddleware, h.Delete)
}
