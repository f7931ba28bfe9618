package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewApi wires all routes onto the router. Stored image artifacts are served
// read-only under /images, separate from the /api namespace.
func NewApi(router *gin.Engine, posts *PostHandler, subscribers *SubscriberHandler, imageDir string, healthPing func(ctx context.Context) error) {
	api := router.Group("/api")
	{
		api.GET("/posts", posts.List)
		api.GET("/posts/:id", posts.Get)
		api.POST("/posts", posts.Create)
		api.PUT("/posts/:id", posts.Update)
		api.DELETE("/posts/:id", posts.Delete)

		api.POST("/subscribe", subscribers.Subscribe)
		api.GET("/subscribers", subscribers.List)
	}

	router.Static("/images", imageDir)

	router.GET("/healthz", func(c *gin.Context) {
		if err := healthPing(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
