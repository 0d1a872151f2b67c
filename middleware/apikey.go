package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidateStaffKey guards the staff fulfillment endpoints.
func ValidateStaffKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" || c.GetHeader("X-API-KEY") != key {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		c.Next()
	}
}
