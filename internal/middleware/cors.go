package middleware

import (
	"strings"

	"github.com/JillVernus/learn-tube/internal/config"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the web player to call the API from another origin
func CORSMiddleware(envCfg *config.EnvConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		// Development allows any localhost origin
		if envCfg.IsDevelopment() {
			if origin != "" && strings.Contains(origin, "localhost") {
				c.Header("Access-Control-Allow-Origin", origin)
			}
		} else {
			c.Header("Access-Control-Allow-Origin", envCfg.CORSOrigin)
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
