package middleware

import (
	"net/http"
	"strings"

	"dukadrop/config"
	"dukadrop/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer JWT and sets the driver identity in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("driver_id", claims.DriverID)
		c.Set("phone", claims.Phone)
		c.Next()
	}
}

// GetDriverID returns the authenticated driver ID (after AuthRequired).
func GetDriverID(c *gin.Context) uint {
	v, _ := c.Get("driver_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}
