package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dineflow/ordering-api/models"
)

type tokenRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone"`
}

// POST /auth/token
// Upserts the user record and issues a session JWT. A missing user_id gets
// a generated one, which doubles as the guest flow.
func IssueTokenHandler(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if req.UserID == "" {
			req.UserID = "user_" + generateRandomString(16)
		}

		user := models.User{
			ID:        req.UserID,
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			CreatedAt: time.Now(),
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone"}),
		}).Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store user"})
			return
		}

		token, err := IssueToken(secret, UserInfo{
			ID: user.ID, Name: user.Name, Email: user.Email, Phone: user.Phone,
		}, 24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user_id": user.ID,
			"token":   token,
		})
	}
}

func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rand_user"
	}
	return hex.EncodeToString(bytes)
}
