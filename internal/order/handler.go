package order

import (
	"errors"
	"strconv"
	"time"

	"farmstore-backend/internal/audit"
	"farmstore-backend/internal/auth"
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

const dateLayout = "2006-01-02"

type PlaceOrderByCartRequest struct {
	CartUniqueID    string `json:"cartUniqueId" validate:"required"`
	MaxDateRequired string `json:"maxDateRequired" validate:"required"`
}

type DirectOrderItem struct {
	ProductID uint            `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

type PlaceOrderDirectRequest struct {
	CustomerName    string            `json:"customerName" validate:"required"`
	CustomerEmail   string            `json:"customerEmail" validate:"omitempty,email"`
	CustomerMobile  string            `json:"customerMobile" validate:"required,min=10,max=15"`
	AddressLine     string            `json:"addressLine" validate:"required"`
	City            string            `json:"city" validate:"required"`
	District        string            `json:"district" validate:"required"`
	PinCode         string            `json:"pinCode" validate:"required"`
	Items           []DirectOrderItem `json:"items" validate:"required,min=1,dive"`
	MaxDateRequired string            `json:"maxDateRequired" validate:"required"`
}

type orderResponse struct {
	ID              uint    `json:"id"`
	OrderUniqueID   string  `json:"orderUniqueId"`
	CustomerID      uint    `json:"customerId"`
	Accepted        bool    `json:"accepted"`
	State           uint    `json:"state"`
	MaxDateRequired string  `json:"maxDateRequired"`
	DeliveryDate    *string `json:"deliveryDate"`
	Message         string  `json:"message,omitempty"`
}

func buildOrderResponse(result *PlaceOrderResult) orderResponse {
	resp := orderResponse{
		ID:              result.Order.ID,
		OrderUniqueID:   result.Order.OrderUniqueID,
		CustomerID:      result.Order.CustomerID,
		Accepted:        result.Accepted,
		State:           result.Order.ConfirmationStateID,
		MaxDateRequired: result.Order.MaxDateRequired.Format(dateLayout),
	}
	if result.Order.DeliveryDate != nil {
		formatted := result.Order.DeliveryDate.Format(dateLayout)
		resp.DeliveryDate = &formatted
	}
	if !result.Accepted && resp.DeliveryDate != nil {
		resp.Message = "The requested date cannot be met. Confirm the order to accept delivery on " + *resp.DeliveryDate
	}
	return resp
}

// serviceError translates the order service sentinels to HTTP statuses.
// Unknown errors are logged and come back as 500.
func serviceError(funcName string, data any, err error) error {
	switch {
	case errors.Is(err, ErrPastDeadline),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrMissingProductAvailability):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCartNotFound), errors.Is(err, ErrOrderNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrAdminOrder), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrOrderDelivered):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		logging.LogError(logger, "order", funcName, "service call", data, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Order operation failed")
	}
}

func parseDeadline(value string) (time.Time, error) {
	deadline, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "maxDateRequired must be YYYY-MM-DD")
	}
	// End of the requested day, so "today + production time" comparisons use
	// the whole day.
	return deadline.Add(24*time.Hour - time.Second), nil
}

// POST /api/orders
func PlaceOrderByCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlaceOrderByCartRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		deadline, err := parseDeadline(body.MaxDateRequired)
		if err != nil {
			return err
		}

		result, err := PlaceOrderByCart(body.CartUniqueID, deadline)
		if err != nil {
			return serviceError("PlaceOrderByCartHandler", fiber.Map{"cart": body.CartUniqueID}, err)
		}

		return c.Status(fiber.StatusCreated).JSON(buildOrderResponse(result))
	}
}

// POST /api/admin/orders
func PlaceOrderDirectHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PlaceOrderDirectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		deadline, err := parseDeadline(body.MaxDateRequired)
		if err != nil {
			return err
		}

		items := make([]RequirementItem, 0, len(body.Items))
		for _, item := range body.Items {
			if !item.Quantity.IsPositive() {
				return fiber.NewError(fiber.StatusBadRequest, "Item quantities must be positive")
			}
			items = append(items, RequirementItem{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		result, err := PlaceOrderDirect(AdminOrderInput{
			CustomerName:    body.CustomerName,
			CustomerEmail:   body.CustomerEmail,
			CustomerMobile:  body.CustomerMobile,
			AddressLine:     body.AddressLine,
			City:            body.City,
			District:        body.District,
			PinCode:         body.PinCode,
			Items:           items,
			MaxDateRequired: deadline,
		})
		if err != nil {
			return serviceError("PlaceOrderDirectHandler", fiber.Map{"mobile": body.CustomerMobile}, err)
		}

		writeOrderAudit(c, models.AuditActionCreate, &result.Order, nil, "Order placed by admin")

		return c.Status(fiber.StatusCreated).JSON(buildOrderResponse(result))
	}
}

var orderSortColumns = map[string]string{
	"createdAt":    "orders.created_at",
	"deliveryDate": "orders.delivery_date",
	"maxDate":      "orders.max_date_required",
	"state":        "orders.confirmation_state_id",
}

func orderListQuery(c *fiber.Ctx) *gorm.DB {
	dbq := database.DB.Model(&models.Order{}).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Where("orders.is_active = ?", true)

	if uniqueID := c.Query("orderUniqueId"); uniqueID != "" {
		dbq = dbq.Where("orders.order_unique_id ILIKE ?", "%"+uniqueID+"%")
	}
	if name := c.Query("customerName"); name != "" {
		dbq = dbq.Where("customers.name ILIKE ?", "%"+name+"%")
	}
	if email := c.Query("customerEmail"); email != "" {
		dbq = dbq.Where("customers.email ILIKE ?", "%"+email+"%")
	}
	if mobile := c.Query("customerMobile"); mobile != "" {
		dbq = dbq.Where("customers.mobile_number LIKE ?", "%"+mobile+"%")
	}
	if state := c.QueryInt("state", 0); state > 0 {
		dbq = dbq.Where("orders.confirmation_state_id = ?", state)
	}
	if from := c.Query("deliveryDateFrom"); from != "" {
		if t, err := time.Parse(dateLayout, from); err == nil {
			dbq = dbq.Where("orders.delivery_date >= ?", t)
		}
	}
	if to := c.Query("deliveryDateTo"); to != "" {
		if t, err := time.Parse(dateLayout, to); err == nil {
			dbq = dbq.Where("orders.delivery_date < ?", t.Add(24*time.Hour))
		}
	}
	return dbq
}

// GET /api/admin/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := pagination.Parse(c)
		dbq := orderListQuery(c)

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Orders could not be counted")
		}

		sortColumn, ok := orderSortColumns[c.Query("sortBy", "createdAt")]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unsupported sort column")
		}
		direction := "DESC"
		if c.Query("sortOrder", "desc") == "asc" {
			direction = "ASC"
		}

		var orders []models.Order
		if err := dbq.Preload("Customer").Preload("ConfirmationState").
			Order(sortColumn + " " + direction).
			Offset(params.Offset()).Limit(params.Limit).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Orders could not be listed")
		}

		return c.JSON(fiber.Map{
			"items": orders,
			"meta":  pagination.BuildMeta(params, total),
		})
	}
}

// GET /api/admin/orders/count
func CountOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var total int64
		if err := orderListQuery(c).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Orders could not be counted")
		}
		return c.JSON(fiber.Map{"count": total})
	}
}

// GET /api/orders/:orderUniqueId
// Accepts either the readable unique ID or the numeric row ID.
func OrderDetailsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := c.Params("orderUniqueId")

		dbq := database.DB.
			Preload("Customer").Preload("Customer.Address").
			Preload("ConfirmationState").
			Preload("Allocations").Preload("Allocations.Product").Preload("Allocations.Batch").
			Where("is_active = ?", true)
		if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
			dbq = dbq.Where("id = ?", uint(id))
		} else {
			dbq = dbq.Where("order_unique_id = ?", ref)
		}

		var ord models.Order
		if err := dbq.First(&ord).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		return c.JSON(ord)
	}
}

// POST /api/orders/:orderUniqueId/confirm
func ConfirmByCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ord, err := ConfirmByCustomer(c.Params("orderUniqueId"))
		if err != nil {
			return serviceError("ConfirmByCustomerHandler", fiber.Map{"order": c.Params("orderUniqueId")}, err)
		}
		return c.JSON(fiber.Map{
			"orderUniqueId": ord.OrderUniqueID,
			"state":         ord.ConfirmationStateID,
		})
	}
}

// POST /api/admin/orders/:orderUniqueId/confirm
func ConfirmByAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		before := fiber.Map{"state": models.StateConfirmedByCustomer}
		ord, err := ConfirmByAdmin(c.Params("orderUniqueId"))
		if err != nil {
			return serviceError("ConfirmByAdminHandler", fiber.Map{"order": c.Params("orderUniqueId")}, err)
		}
		writeOrderAudit(c, models.AuditActionUpdate, ord, before, "Order confirmed by admin")
		return c.JSON(fiber.Map{
			"orderUniqueId": ord.OrderUniqueID,
			"state":         ord.ConfirmationStateID,
		})
	}
}

// POST /api/admin/orders/:orderUniqueId/revert-confirmation
func RevertConfirmationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		before := fiber.Map{"state": models.StateConfirmedByAdmin}
		ord, err := RevertAdminConfirmation(c.Params("orderUniqueId"))
		if err != nil {
			return serviceError("RevertConfirmationHandler", fiber.Map{"order": c.Params("orderUniqueId")}, err)
		}
		writeOrderAudit(c, models.AuditActionUpdate, ord, before, "Admin confirmation reverted")
		return c.JSON(fiber.Map{
			"orderUniqueId": ord.OrderUniqueID,
			"state":         ord.ConfirmationStateID,
		})
	}
}

// POST /api/admin/orders/:orderUniqueId/ship
func MarkShippedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		before := fiber.Map{"state": models.StateConfirmedByAdmin}
		ord, err := MarkShipped(c.Params("orderUniqueId"))
		if err != nil {
			return serviceError("MarkShippedHandler", fiber.Map{"order": c.Params("orderUniqueId")}, err)
		}
		writeOrderAudit(c, models.AuditActionUpdate, ord, before, "Order shipped")
		return c.JSON(fiber.Map{
			"orderUniqueId": ord.OrderUniqueID,
			"state":         ord.ConfirmationStateID,
		})
	}
}

// POST /api/admin/orders/:orderUniqueId/deliver
func MarkDeliveredHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		before := fiber.Map{"state": models.StateShipped}
		ord, err := MarkDelivered(c.Params("orderUniqueId"))
		if err != nil {
			return serviceError("MarkDeliveredHandler", fiber.Map{"order": c.Params("orderUniqueId")}, err)
		}
		writeOrderAudit(c, models.AuditActionUpdate, ord, before, "Order delivered")
		return c.JSON(fiber.Map{
			"orderUniqueId": ord.OrderUniqueID,
			"state":         ord.ConfirmationStateID,
		})
	}
}

// POST /api/admin/orders/:orderUniqueId/cancel
func CancelOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ord, err := Cancel(c.Params("orderUniqueId"))
		if err != nil {
			return serviceError("CancelOrderHandler", fiber.Map{"order": c.Params("orderUniqueId")}, err)
		}
		writeOrderAudit(c, models.AuditActionUpdate, ord, nil, "Order cancelled")
		return c.JSON(fiber.Map{
			"orderUniqueId": ord.OrderUniqueID,
			"state":         ord.ConfirmationStateID,
		})
	}
}

func writeOrderAudit(c *fiber.Ctx, action models.AuditAction, ord *models.Order, before any, description string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	userName, _ := c.Locals(auth.CtxUserNameKey).(string)
	if err := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "order",
		EntityID:    ord.ID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       fiber.Map{"state": ord.ConfirmationStateID},
	}); err != nil {
		logging.LogError(logger, "order", "writeOrderAudit", "write audit log", fiber.Map{"order": ord.OrderUniqueID}, err)
	}
}
