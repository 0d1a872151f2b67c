// Package auth is the authentication capability seam. The ordering core only
// needs "is there a user, and who": token issuing here is a thin stand-in
// for whatever identity provider fronts the service.
package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserInfo is the authenticated identity attached to a request.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Context keys set by the auth middleware.
const (
	CtxUserID    = "user_id"
	CtxUserName  = "user_name"
	CtxUserEmail = "user_email"
	CtxUserPhone = "user_phone"
)

// CurrentUser extracts the authenticated user from the gin context. Returns
// false when the request is unauthenticated.
func CurrentUser(c *gin.Context) (UserInfo, bool) {
	idVal, ok := c.Get(CtxUserID)
	if !ok {
		return UserInfo{}, false
	}
	id, _ := idVal.(string)
	if id == "" {
		return UserInfo{}, false
	}
	return UserInfo{
		ID:    id,
		Name:  c.GetString(CtxUserName),
		Email: c.GetString(CtxUserEmail),
		Phone: c.GetString(CtxUserPhone),
	}, true
}

// IssueToken signs a JWT carrying the user's identity claims.
func IssueToken(secret string, user UserInfo, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"phone":   user.Phone,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the identity claims.
func ParseToken(secret, tokenString string) (UserInfo, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = jwt.ErrTokenInvalidClaims
		}
		return UserInfo{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserInfo{}, jwt.ErrTokenInvalidClaims
	}
	user := UserInfo{}
	user.ID, _ = claims["user_id"].(string)
	user.Name, _ = claims["name"].(string)
	user.Email, _ = claims["email"].(string)
	user.Phone, _ = claims["phone"].(string)
	return user, nil
}
