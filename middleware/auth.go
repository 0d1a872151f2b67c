package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dineflow/ordering-api/auth"
)

// ValidateToken guards customer endpoints. On success the user's identity
// claims are placed in the gin context for auth.CurrentUser.
func ValidateToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		user, err := auth.ParseToken(secret, tokenString)
		if err != nil || user.ID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(auth.CtxUserID, user.ID)
		c.Set(auth.CtxUserName, user.Name)
		c.Set(auth.CtxUserEmail, user.Email)
		c.Set(auth.CtxUserPhone, user.Phone)
		c.Next()
	}
}
