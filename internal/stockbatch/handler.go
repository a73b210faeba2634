package stockbatch

import (
	"strconv"
	"strings"
	"time"

	"farmstore-backend/internal/audit"
	"farmstore-backend/internal/auth"
	"farmstore-backend/internal/database"
	"farmstore-backend/internal/logging"
	"farmstore-backend/internal/models"
	"farmstore-backend/internal/pagination"
	"farmstore-backend/internal/uniqueid"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	logger   = logging.GetLogger()
	validate = validator.New()
)

const dateLayout = "2006-01-02"

type CreateBatchRequest struct {
	ProductID        uint            `json:"productId" validate:"required"`
	QuantityProduced decimal.Decimal `json:"quantityProduced" validate:"required"`
	StartDate        string          `json:"startDate" validate:"required"`
	EndDate          string          `json:"endDate" validate:"required"`
	PricePerKg       decimal.Decimal `json:"pricePerKg" validate:"required"`
}

type UpdateBatchRequest struct {
	QuantityProduced decimal.Decimal `json:"quantityProduced" validate:"required"`
	StartDate        string          `json:"startDate" validate:"required"`
	EndDate          string          `json:"endDate" validate:"required"`
	PricePerKg       decimal.Decimal `json:"pricePerKg" validate:"required"`
}

var batchSortColumns = map[string]string{
	"startDate": "start_date",
	"endDate":   "end_date",
	"createdAt": "created_at",
	"batchCode": "batch_code",
}

func parseDateRange(c *fiber.Ctx, dbq *gorm.DB, column, fromParam, toParam string) *gorm.DB {
	if from := c.Query(fromParam); from != "" {
		if t, err := time.Parse(dateLayout, from); err == nil {
			dbq = dbq.Where(column+" >= ?", t)
		}
	}
	if to := c.Query(toParam); to != "" {
		if t, err := time.Parse(dateLayout, to); err == nil {
			dbq = dbq.Where(column+" < ?", t.Add(24*time.Hour))
		}
	}
	return dbq
}

func batchListQuery(c *fiber.Ctx) *gorm.DB {
	dbq := database.DB.Model(&models.StockBatch{}).Where("is_active = ?", true)

	if code := c.Query("batchCode"); code != "" {
		dbq = dbq.Where("batch_code ILIKE ?", "%"+code+"%")
	}
	if ids := c.Query("productIds"); ids != "" {
		var productIDs []uint
		for _, part := range strings.Split(ids, ",") {
			if id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32); err == nil && id > 0 {
				productIDs = append(productIDs, uint(id))
			}
		}
		if len(productIDs) > 0 {
			dbq = dbq.Where("product_id IN ?", productIDs)
		}
	}
	dbq = parseDateRange(c, dbq, "start_date", "startDateFrom", "startDateTo")
	dbq = parseDateRange(c, dbq, "end_date", "endDateFrom", "endDateTo")
	return dbq
}

// GET /api/admin/stock-batches
func ListBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := pagination.Parse(c)
		dbq := batchListQuery(c)

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock batches could not be counted")
		}

		sortColumn, ok := batchSortColumns[c.Query("sortBy", "endDate")]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unsupported sort column")
		}
		direction := "ASC"
		if c.Query("sortOrder", "asc") == "desc" {
			direction = "DESC"
		}

		var batches []models.StockBatch
		if err := dbq.Preload("Product").
			Order(sortColumn + " " + direction).
			Offset(params.Offset()).Limit(params.Limit).
			Find(&batches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock batches could not be listed")
		}

		return c.JSON(fiber.Map{
			"items": batches,
			"meta":  pagination.BuildMeta(params, total),
		})
	}
}

// GET /api/admin/stock-batches/count
func CountBatchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var total int64
		if err := batchListQuery(c).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock batches could not be counted")
		}
		return c.JSON(fiber.Map{"count": total})
	}
}

// POST /api/admin/stock-batches
func CreateBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !body.QuantityProduced.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "quantityProduced must be positive")
		}
		if !body.PricePerKg.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "pricePerKg must be positive")
		}

		startDate, err := time.Parse(dateLayout, body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
		}
		endDate, err := time.Parse(dateLayout, body.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
		}
		if endDate.Before(startDate) {
			return fiber.NewError(fiber.StatusBadRequest, "endDate must not be before startDate")
		}

		var product models.Product
		if err := database.DB.Where("id = ? AND is_active = ?", body.ProductID, true).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Product does not exist")
		}

		batch := models.StockBatch{
			BatchCode:        uniqueid.BatchCode(body.ProductID, startDate, endDate),
			ProductID:        body.ProductID,
			QuantityProduced: body.QuantityProduced,
			StartDate:        startDate,
			EndDate:          endDate,
			PricePerKg:       body.PricePerKg,
			IsActive:         true,
		}
		if err := database.DB.Create(&batch).Error; err != nil {
			logging.LogError(logger, "stockbatch", "CreateBatchHandler", "create batch", fiber.Map{"product": body.ProductID}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Stock batch could not be created")
		}

		writeBatchAudit(c, models.AuditActionCreate, batch.ID, nil, batch, "Stock batch created")

		return c.Status(fiber.StatusCreated).JSON(batch)
	}
}

// PUT /api/admin/stock-batches/:id
func UpdateBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid batch ID")
		}

		var body UpdateBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		startDate, err := time.Parse(dateLayout, body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "startDate must be YYYY-MM-DD")
		}
		endDate, err := time.Parse(dateLayout, body.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "endDate must be YYYY-MM-DD")
		}
		if endDate.Before(startDate) {
			return fiber.NewError(fiber.StatusBadRequest, "endDate must not be before startDate")
		}

		var batch models.StockBatch
		if err := database.DB.Where("id = ? AND is_active = ?", id, true).First(&batch).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stock batch not found")
		}
		before := batch

		// Produced quantity can never drop below what orders already took.
		if body.QuantityProduced.LessThan(batch.QuantityAllocated) {
			return fiber.NewError(fiber.StatusBadRequest, "quantityProduced cannot be less than the allocated quantity")
		}

		batch.QuantityProduced = body.QuantityProduced
		batch.StartDate = startDate
		batch.EndDate = endDate
		batch.PricePerKg = body.PricePerKg
		if err := database.DB.Save(&batch).Error; err != nil {
			logging.LogError(logger, "stockbatch", "UpdateBatchHandler", "update batch", fiber.Map{"id": id}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Stock batch could not be updated")
		}

		writeBatchAudit(c, models.AuditActionUpdate, batch.ID, before, batch, "Stock batch updated")

		return c.JSON(batch)
	}
}

// DELETE /api/admin/stock-batches/:id
// Batches referenced by order allocations are deactivated instead of
// removed, so allocation history keeps resolving.
func DeleteBatchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid batch ID")
		}

		var batch models.StockBatch
		if err := database.DB.First(&batch, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stock batch not found")
		}
		before := batch

		var refs int64
		if err := database.DB.Model(&models.OrderBatchAllocation{}).
			Where("batch_id = ?", batch.ID).Count(&refs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stock batch references could not be checked")
		}

		if refs > 0 {
			if err := database.DB.Model(&batch).Update("is_active", false).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stock batch could not be deactivated")
			}
		} else {
			if err := database.DB.Delete(&batch).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Stock batch could not be deleted")
			}
		}

		writeBatchAudit(c, models.AuditActionDelete, batch.ID, before, nil, "Stock batch deleted")

		return c.JSON(fiber.Map{"message": "Stock batch deleted"})
	}
}

func writeBatchAudit(c *fiber.Ctx, action models.AuditAction, batchID uint, before, after any, description string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)
	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "stock_batch",
		EntityID:    batchID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}); err != nil {
		logging.LogError(logger, "stockbatch", "writeBatchAudit", "write audit log", fiber.Map{"batch": batchID}, err)
	}
}
