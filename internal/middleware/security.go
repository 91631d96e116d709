package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds browser security headers to responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// X-Content-Type-Options: Prevents MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// X-Frame-Options: Prevents clickjacking, the player is never framed
		c.Header("X-Frame-Options", "DENY")

		// Referrer-Policy: full URL for same-origin, only origin cross-origin
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}
