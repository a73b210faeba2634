package auth

import (
	"strings"
	"time"

	"farmstore-backend/internal/cache"
	"farmstore-backend/internal/config"
	"farmstore-backend/internal/database"
	"farmstore-backend/internal/logging"
	"farmstore-backend/internal/models"
	"farmstore-backend/internal/uniqueid"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var logger = logging.GetLogger()

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ResetPasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func issueTokenPair(cfg *config.Config, user *models.User) (string, string, error) {
	accessToken, err := GenerateToken(cfg.JWTSecret, user)
	if err != nil {
		return "", "", err
	}
	refreshValue := uuid.NewString() + uuid.NewString()
	refresh := models.RefreshToken{
		Token:     refreshValue,
		UserID:    user.ID,
		ExpiresAt: time.Now().AddDate(0, 0, cfg.RefreshTokenDays),
	}
	if err := database.DB.Create(&refresh).Error; err != nil {
		return "", "", err
	}
	return accessToken, refreshValue, nil
}

// RegisterAdminHandler bootstraps the first admin account. Once one exists
// the endpoint refuses; further staff accounts are created by an
// authenticated admin.
func RegisterAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 8 characters")
		}

		var count int64
		database.DB.Model(&models.User{}).
			Where("role = ? AND is_active = ?", models.RoleAdmin, true).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "An admin account already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			UserCode:     uniqueid.UserCode(),
			Role:         models.RoleAdmin,
			IsActive:     true,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			logging.LogError(logger, "auth", "RegisterAdminHandler", "create user", fiber.Map{"email": body.Email}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "User could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       user.ID,
			"email":    user.Email,
			"userCode": user.UserCode,
			"role":     user.Role,
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ? AND is_active = ?", body.Email, true).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email or password is incorrect")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email or password is incorrect")
		}

		accessToken, refreshToken, err := issueTokenPair(cfg, &user)
		if err != nil {
			logging.LogError(logger, "auth", "LoginHandler", "issue tokens", fiber.Map{"email": body.Email}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be created")
		}

		return c.JSON(fiber.Map{
			"token":        accessToken,
			"refreshToken": refreshToken,
			"user": fiber.Map{
				"id":       user.ID,
				"name":     user.Name,
				"email":    user.Email,
				"userCode": user.UserCode,
				"role":     user.Role,
			},
		})
	}
}

// RefreshHandler swaps a valid refresh token for a new access/refresh pair.
// The presented refresh token is revoked so each value works once.
func RefreshHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RefreshRequest
		if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Refresh token is required")
		}

		var stored models.RefreshToken
		if err := database.DB.Preload("User").
			Where("token = ? AND is_revoked = ?", body.RefreshToken, false).
			First(&stored).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
		}
		if time.Now().After(stored.ExpiresAt) {
			return fiber.NewError(fiber.StatusUnauthorized, "Refresh token has expired")
		}
		if !stored.User.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "User account is inactive")
		}

		if err := database.DB.Model(&models.RefreshToken{}).
			Where("id = ?", stored.ID).Update("is_revoked", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Refresh token could not be rotated")
		}

		accessToken, refreshToken, err := issueTokenPair(cfg, &stored.User)
		if err != nil {
			logging.LogError(logger, "auth", "RefreshHandler", "issue tokens", fiber.Map{"user_id": stored.UserID}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Token could not be created")
		}

		return c.JSON(fiber.Map{
			"token":        accessToken,
			"refreshToken": refreshToken,
		})
	}
}

// LogoutHandler blacklists the current access token until its natural expiry
// and revokes the presented refresh token.
func LogoutHandler(blacklist *cache.TokenBlacklist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, _ := c.Locals(CtxTokenKey).(string)
		if tokenStr != "" {
			expiresAt := time.Now().Add(AccessTokenTTL)
			if token, _, err := jwt.NewParser().ParseUnverified(tokenStr, &JWTCustomClaims{}); err == nil {
				if claims, ok := token.Claims.(*JWTCustomClaims); ok && claims.ExpiresAt != nil {
					expiresAt = claims.ExpiresAt.Time
				}
			}
			blacklist.Add(c.Context(), tokenStr, expiresAt)
		}

		var body RefreshRequest
		if err := c.BodyParser(&body); err == nil && body.RefreshToken != "" {
			database.DB.Model(&models.RefreshToken{}).
				Where("token = ?", body.RefreshToken).
				Update("is_revoked", true)
		}

		return c.JSON(fiber.Map{"message": "Logged out"})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "User information is missing")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		return c.JSON(fiber.Map{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"userCode": user.UserCode,
			"role":     user.Role,
		})
	}
}

func ResetPasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "User information is missing")
		}

		var body ResetPasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.NewPassword) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "New password must be at least 8 characters")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.CurrentPassword)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Current password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be hashed")
		}

		if err := database.DB.Model(&models.User{}).
			Where("id = ?", user.ID).Update("password_hash", string(hash)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Password could not be updated")
		}

		// Old refresh tokens die with the old password.
		database.DB.Model(&models.RefreshToken{}).
			Where("user_id = ?", user.ID).
			Update("is_revoked", true)

		return c.JSON(fiber.Map{"message": "Password updated"})
	}
}
