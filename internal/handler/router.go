package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asrvd/video-indexing-and-search/internal/middleware"
)

type RouterDeps struct {
	Videos          *VideoHandler
	Search          *SearchHandler
	RateLimitWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	writeGroup := api.Group("")
	writeGroup.Use(middleware.RateLimit(deps.RateLimitWindow))
	writeGroup.POST("/videos", deps.Videos.Index)

	api.GET("/videos", deps.Videos.List)
	api.DELETE("/videos/:id", deps.Videos.Delete)
	api.GET("/search", deps.Search.Search)
}
