package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers resource catalog routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/resources")
	{
		group.GET("", h.List)      // List bookable resources
		group.GET("/:name", h.Get) // Get a resource by name
	}
}
