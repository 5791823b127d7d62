package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/organizations")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.PUT("/:id/payment-details", h.SetPaymentDetails)
		group.GET("/:id/members", h.ListMembers)
		group.POST("/:id/members", h.AddMember)
		group.DELETE("/:id/members/:userId", h.RemoveMember)
	}
}
