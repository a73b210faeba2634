package auth

import (
	"time"

	"farmstore-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL keeps access tokens short; clients roll them over with the
// refresh endpoint.
const AccessTokenTTL = 15 * time.Minute

type JWTCustomClaims struct {
	UserID   uint            `json:"user_id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	UserCode string          `json:"user_code"`
	Role     models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		UserCode: user.UserCode,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
