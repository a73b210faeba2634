package apikey

import (
	"errors"

	"farmstore-backend/internal/database"
	"farmstore-backend/internal/logging"
	"farmstore-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

var logger = logging.GetLogger()

// HeaderName carries the storefront agent key.
const HeaderName = "X-Api-Key"

// RequireAPIKey guards the storefront agent endpoints.
func RequireAPIKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		value := c.Get(HeaderName)
		if value == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "API key is missing")
		}
		ok, err := Validate(value)
		if err != nil {
			logging.LogError(logger, "apikey", "RequireAPIKey", "validate key", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "API key could not be checked")
		}
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "API key is invalid or expired")
		}
		return c.Next()
	}
}

type GenerateKeyRequest struct {
	Name string `json:"name"`
}

// POST /api/admin/api-keys
func GenerateKeyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GenerateKeyRequest
		if err := c.BodyParser(&body); err != nil || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Key name is required")
		}
		key, err := Generate(body.Name)
		if err != nil {
			logging.LogError(logger, "apikey", "GenerateKeyHandler", "generate key", fiber.Map{"name": body.Name}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "API key could not be generated")
		}
		return c.Status(fiber.StatusCreated).JSON(key)
	}
}

// GET /api/admin/api-keys
func ListKeysHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var keys []models.APIKey
		if err := database.DB.Order("created_at DESC").Find(&keys).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "API keys could not be listed")
		}
		return c.JSON(keys)
	}
}

// POST /api/admin/api-keys/:id/revoke
func RevokeKeyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid key ID")
		}
		if err := Revoke(uint(id)); err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "API key not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "API key could not be revoked")
		}
		return c.JSON(fiber.Map{"message": "API key revoked"})
	}
}

// POST /api/admin/api-keys/:id/refresh
func RefreshKeyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid key ID")
		}
		key, err := Refresh(uint(id))
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "API key not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "API key could not be refreshed")
		}
		return c.Status(fiber.StatusCreated).JSON(key)
	}
}
