package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthCheck returns basic liveness status
func HealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
			"uptime": time.Since(startTime).Seconds(),
		})
	}
}
