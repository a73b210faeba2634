package cart

import (
	"errors"

	"farmstore-backend/internal/database"
	"farmstore-backend/internal/logging"
	"farmstore-backend/internal/models"
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

type CartItemRequest struct {
	ProductID uint            `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

type CreateCartRequest struct {
	CustomerName   string            `json:"customerName" validate:"required,max=100"`
	CustomerEmail  string            `json:"customerEmail" validate:"omitempty,email"`
	CustomerMobile string            `json:"customerMobile" validate:"required,min=10,max=15"`
	AddressLine    string            `json:"addressLine" validate:"required,max=255"`
	City           string            `json:"city" validate:"required,max=100"`
	District       string            `json:"district" validate:"required,max=100"`
	PinCode        string            `json:"pinCode" validate:"required,max=10"`
	Items          []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

// POST /api/carts
func CreateCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCartRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		productIDs := make([]uint, 0, len(body.Items))
		idSum := uint(0)
		totalQuantity := decimal.Zero
		for _, item := range body.Items {
			if !item.Quantity.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "Item quantities must be positive")
			}
			productIDs = append(productIDs, item.ProductID)
			idSum += item.ProductID
			totalQuantity = totalQuantity.Add(item.Quantity)
		}

		var productCount int64
		if err := database.DB.Model(&models.Product{}).
			Where("id IN ? AND is_active = ?", productIDs, true).
			Distinct("id").Count(&productCount).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Products could not be checked")
		}
		if int(productCount) != len(uniqueIDs(productIDs)) {
			return fiber.NewError(fiber.StatusBadRequest, "One or more products do not exist")
		}

		var created models.Cart
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			customer, err := findOrCreateCustomer(tx, body)
			if err != nil {
				return err
			}

			cart := models.Cart{
				CartUniqueID: uniqueid.CartID(idSum, totalQuantity),
				CustomerID:   customer.ID,
				IsActive:     true,
			}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}

			items := make([]models.CartItem, 0, len(body.Items))
			for _, item := range body.Items {
				items = append(items, models.CartItem{
					CartID:    cart.ID,
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
				})
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
			created = cart
			return nil
		})
		if err != nil {
			logging.LogError(logger, "cart", "CreateCartHandler", "create cart", fiber.Map{"mobile": body.CustomerMobile}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Cart could not be created")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"cartUniqueId": created.CartUniqueID,
			"customerId":   created.CustomerID,
		})
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func findOrCreateCustomer(tx *gorm.DB, body CreateCartRequest) (*models.Customer, error) {
	var existing models.Customer
	err := tx.Where("mobile_number = ? AND is_active = ?", body.CustomerMobile, true).First(&existing).Error
	if err == nil {
		existing.Name = body.CustomerName
		existing.Email = body.CustomerEmail
		if err := tx.Save(&existing).Error; err != nil {
			return nil, err
		}
		if err := tx.Model(&models.Address{}).Where("id = ?", existing.AddressID).Updates(map[string]interface{}{
			"address_line": body.AddressLine,
			"city":         body.City,
			"district":     body.District,
			"pin_code":     body.PinCode,
		}).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	address := models.Address{
		AddressLine: body.AddressLine,
		City:        body.City,
		District:    body.District,
		PinCode:     body.PinCode,
	}
	if err := tx.Create(&address).Error; err != nil {
		return nil, err
	}
	customer := models.Customer{
		Name:         body.CustomerName,
		Email:        body.CustomerEmail,
		MobileNumber: body.CustomerMobile,
		AddressID:    address.ID,
		IsActive:     true,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GET /api/carts/:cartUniqueId
func GetCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cart models.Cart
		if err := database.DB.
			Preload("Customer").Preload("Customer.Address").
			Preload("Items").Preload("Items.Product").
			Where("cart_unique_id = ? AND is_active = ?", c.Params("cartUniqueId"), true).
			First(&cart).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cart not found")
		}
		return c.JSON(cart)
	}
}

// DELETE /api/carts/:cartUniqueId
func DeleteCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		result := database.DB.Model(&models.Cart{}).
			Where("cart_unique_id = ? AND is_active = ?", c.Params("cartUniqueId"), true).
			Update("is_active", false)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Cart could not be deleted")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Cart not found")
		}
		return c.JSON(fiber.Map{"message": "Cart deleted"})
	}
}
