package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"farmstore-backend/internal/audit"
	"farmstore-backend/internal/auth"
	"farmstore-backend/internal/config"
	"farmstore-backend/internal/database"
	"farmstore-backend/internal/logging"
	"farmstore-backend/internal/models"
	"farmstore-backend/internal/pagination"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	logger   = logging.GetLogger()
	validate = validator.New()
)

// BestSellerCount limits the featured-products endpoint.
const BestSellerCount = 5

type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"required,max=300"`
	PricePerKg  decimal.Decimal `json:"pricePerKg" validate:"required"`
}

var productSortColumns = map[string]string{
	"name":       "name",
	"pricePerKg": "price_per_kg",
	"createdAt":  "created_at",
}

func productListQuery(c *fiber.Ctx) *gorm.DB {
	dbq := database.DB.Model(&models.Product{}).Where("is_active = ?", true)
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		dbq = dbq.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	return dbq
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := pagination.Parse(c)
		dbq := productListQuery(c)

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be counted")
		}

		sortColumn, ok := productSortColumns[c.Query("sortBy", "name")]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unsupported sort column")
		}
		direction := "ASC"
		if c.Query("sortOrder", "asc") == "desc" {
			direction = "DESC"
		}

		var products []models.Product
		if err := dbq.Order(sortColumn + " " + direction).
			Offset(params.Offset()).Limit(params.Limit).
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be listed")
		}

		return c.JSON(fiber.Map{
			"items": products,
			"meta":  pagination.BuildMeta(params, total),
		})
	}
}

// GET /api/products/count
func CountProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var total int64
		if err := productListQuery(c).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be counted")
		}
		return c.JSON(fiber.Map{"count": total})
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product ID")
		}
		var product models.Product
		if err := database.DB.Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.JSON(product)
	}
}

// parseProductForm reads the multipart form fields and validates them.
func parseProductForm(c *fiber.Ctx) (*ProductRequest, error) {
	price, err := decimal.NewFromString(c.FormValue("pricePerKg"))
	if err != nil || !price.IsPositive() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "pricePerKg must be a positive number")
	}
	body := ProductRequest{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		PricePerKg:  price,
	}
	if err := validate.Struct(body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return &body, nil
}

func saveProductImage(c *fiber.Ctx, cfg *config.Config, productID uint) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil // image is optional
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fiber.NewError(fiber.StatusBadRequest, "Image must be jpg, png or webp")
	}
	name := fmt.Sprintf("product-%d-%d%s", productID, time.Now().UnixMilli(), ext)
	if err := c.SaveFile(file, filepath.Join(cfg.ProductImagePath, name)); err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "Image could not be saved")
	}
	return name, nil
}

// POST /api/admin/products (multipart: name, description, pricePerKg, image?)
func CreateProductHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := parseProductForm(c)
		if err != nil {
			return err
		}

		product := models.Product{
			Name:        body.Name,
			Description: body.Description,
			PricePerKg:  body.PricePerKg,
			IsActive:    true,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			logging.LogError(logger, "catalog", "CreateProductHandler", "create product", fiber.Map{"name": body.Name}, err)
			return fiber.NewError(fiber.StatusConflict, "Product could not be created; the name may already exist")
		}

		imagePath, err := saveProductImage(c, cfg, product.ID)
		if err != nil {
			return err
		}
		if imagePath != "" {
			if err := database.DB.Model(&product).Update("image_path", imagePath).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Product image could not be stored")
			}
			product.ImagePath = imagePath
		}

		writeProductAudit(c, models.AuditActionCreate, product.ID, nil, product, "Product created")

		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// PUT /api/admin/products/:id (multipart, same fields as create)
func UpdateProductHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product ID")
		}

		var product models.Product
		if err := database.DB.Where("id = ? AND is_active = ?", id, true).First(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		before := product

		body, err := parseProductForm(c)
		if err != nil {
			return err
		}

		imagePath, err := saveProductImage(c, cfg, product.ID)
		if err != nil {
			return err
		}

		product.Name = body.Name
		product.Description = body.Description
		product.PricePerKg = body.PricePerKg
		if imagePath != "" {
			product.ImagePath = imagePath
		}
		if err := database.DB.Save(&product).Error; err != nil {
			logging.LogError(logger, "catalog", "UpdateProductHandler", "update product", fiber.Map{"id": id}, err)
			return fiber.NewError(fiber.StatusConflict, "Product could not be updated; the name may already exist")
		}

		writeProductAudit(c, models.AuditActionUpdate, product.ID, before, product, "Product updated")

		return c.JSON(product)
	}
}

// DELETE /api/admin/products/:id
// Products referenced by allocations or batches are deactivated, never
// removed, so order history keeps resolving.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product ID")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		before := product

		if err := database.DB.Model(&product).Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product could not be deleted")
		}
		// Batches of a retired product stop feeding availability.
		if err := database.DB.Model(&models.StockBatch{}).
			Where("product_id = ?", product.ID).
			Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product batches could not be deactivated")
		}

		writeProductAudit(c, models.AuditActionDelete, product.ID, before, nil, "Product deleted")

		return c.JSON(fiber.Map{"message": "Product deleted"})
	}
}

// GET /api/products/:id/image
func ProductImageHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product ID")
		}
		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		if product.ImagePath == "" {
			return fiber.NewError(fiber.StatusNotFound, "Product has no image")
		}
		return c.SendFile(filepath.Join(cfg.ProductImagePath, filepath.Base(product.ImagePath)))
	}
}

// GET /api/products/best-sellers
// Ranked by how many allocation rows reference each product.
func BestSellersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		err := database.DB.Model(&models.Product{}).
			Joins("LEFT JOIN order_batch_allocations ON order_batch_allocations.product_id = products.id").
			Where("products.is_active = ?", true).
			Group("products.id").
			Order("COUNT(order_batch_allocations.id) DESC").
			Limit(BestSellerCount).
			Find(&products).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Best sellers could not be listed")
		}
		return c.JSON(products)
	}
}

func writeProductAudit(c *fiber.Ctx, action models.AuditAction, productID uint, before, after any, description string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)
	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "product",
		EntityID:    productID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}); err != nil {
		logging.LogError(logger, "catalog", "writeProductAudit", "write audit log", fiber.Map{"product": productID}, err)
	}
}
