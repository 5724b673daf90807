package controllers

import "github.com/gin-gonic/gin"

// HealthController represents a controller for health check endpoints
type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Health handles the liveness endpoint and returns a 200 OK response. It
// deliberately checks no dependencies; a degraded vector store or provider
// must not restart the service.
func (ctrl HealthController) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
	})
}
