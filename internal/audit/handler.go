package audit

import (
	"farmstore-backend/internal/database"
	"farmstore-backend/internal/models"
	"farmstore-backend/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// GET /api/admin/audit-logs?entity_type=order&entity_id=1&user_id=2&action=update
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := pagination.Parse(c)

		dbq := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityID := c.QueryInt("entity_id", 0); entityID > 0 {
			dbq = dbq.Where("entity_id = ?", entityID)
		}
		if userID := c.QueryInt("user_id", 0); userID > 0 {
			dbq = dbq.Where("user_id = ?", userID)
		}
		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("action = ?", action)
		}

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logs could not be counted")
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").
			Offset(params.Offset()).Limit(params.Limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit logs could not be listed")
		}

		return c.JSON(fiber.Map{
			"items": logs,
			"meta":  pagination.BuildMeta(params, total),
		})
	}
}
