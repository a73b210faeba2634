package order

import (
	"errors"
	"time"

	"farmstore-backend/internal/database"
	"farmstore-backend/internal/models"
	"farmstore-backend/internal/uniqueid"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPastDeadline      = errors.New("delivery date must be in the future")
	ErrCartNotFound      = errors.New("cart not found")
	ErrEmptyCart         = errors.New("no items found in cart")
	ErrOrderNotFound     = errors.New("order not found or not active")
	ErrAdminOrder        = errors.New("order was created by admin and cannot be confirmed by customer")
	ErrInvalidTransition = errors.New("order is not in the required state for this action")
	ErrOrderDelivered    = errors.New("delivered orders cannot be cancelled")
)

// PlaceOrderResult is what the placement endpoints return: the created order,
// and whether it could be accepted for the requested deadline. A rejected
// deadline still creates the order, pending confirmation, with no
// allocations.
type PlaceOrderResult struct {
	Order    models.Order
	Accepted bool
}

// AdminOrderInput carries the admin-direct order payload. The customer is
// matched by mobile number and created or updated as needed.
type AdminOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerMobile  string
	AddressLine     string
	City            string
	District        string
	PinCode         string
	Items           []RequirementItem
	MaxDateRequired time.Time
}

// lockBatchesForProducts loads the active batches for the given products
// inside tx, row-locked (SELECT ... FOR UPDATE) and sorted by end date. The
// lock serializes concurrent allocation passes over overlapping batches, so
// two orders can never both read the same quantity_allocated and overwrite
// each other's update.
func lockBatchesForProducts(tx *gorm.DB, productIDs []uint) ([]models.StockBatch, error) {
	var batches []models.StockBatch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id IN ? AND is_active = ?", productIDs, true).
		Order("end_date asc").
		Find(&batches).Error
	return batches, err
}

// applyAllocation persists allocation rows and batch counter increments in
// one shot. Runs inside the caller's transaction: either both the rows and
// every counter update commit, or none of them do.
func applyAllocation(tx *gorm.DB, batches []models.StockBatch, items []RequirementItem, orderID uint) ([]models.OrderBatchAllocation, error) {
	allocations, deltas := Allocate(batches, items, orderID)
	if len(allocations) > 0 {
		if err := tx.Create(&allocations).Error; err != nil {
			return nil, err
		}
	}
	for batchID, delta := range deltas {
		if err := tx.Model(&models.StockBatch{}).
			Where("id = ?", batchID).
			UpdateColumn("quantity_allocated", gorm.Expr("quantity_allocated + ?", delta)).Error; err != nil {
			return nil, err
		}
	}
	return allocations, nil
}

// PlaceOrderByCart turns an active cart into an order. The whole
// read-check-allocate-write sequence runs in a single transaction over
// row-locked batches.
func PlaceOrderByCart(cartUniqueID string, maxDateRequired time.Time) (*PlaceOrderResult, error) {
	if maxDateRequired.Before(time.Now()) {
		return nil, ErrPastDeadline
	}

	var result PlaceOrderResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("cart_unique_id = ? AND is_active = ?", cartUniqueID, true).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}

		var cartItems []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Order("id asc").Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		// A re-placed cart replaces its earlier attempt.
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.Order{}).Error; err != nil {
			return err
		}

		items := make([]RequirementItem, 0, len(cartItems))
		productIDs := make([]uint, 0, len(cartItems))
		for _, ci := range cartItems {
			items = append(items, RequirementItem{ProductID: ci.ProductID, Quantity: ci.Quantity})
			productIDs = append(productIDs, ci.ProductID)
		}

		batches, err := lockBatchesForProducts(tx, productIDs)
		if err != nil {
			return err
		}

		plan, err := PlanOrder(batches, items, maxDateRequired)
		if err != nil {
			return err
		}

		stateID := models.StatePending
		if plan.Feasible {
			stateID = models.StateConfirmedByCustomer
		}
		// Kept even when the deadline is missed: the pending order carries
		// the estimate the customer is asked to accept.
		deliveryDate := plan.DeliveryDate
		created := models.Order{
			OrderUniqueID:       uniqueid.OrderID(cartUniqueID, maxDateRequired),
			CustomerID:          cart.CustomerID,
			CartID:              &cart.ID,
			MaxDateRequired:     maxDateRequired,
			DeliveryDate:        &deliveryDate,
			ConfirmationStateID: stateID,
			IsActive:            true,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		result.Order = created

		if !plan.Feasible {
			// Soft outcome: the order waits for the customer to accept the
			// later date. Nothing is allocated.
			return nil
		}

		if _, err := applyAllocation(tx, batches, items, created.ID); err != nil {
			return err
		}
		if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("is_active", false).Error; err != nil {
			return err
		}
		result.Accepted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// PlaceOrderDirect places an order on behalf of a walk-in or phone customer.
// Skips the cart and the customer-confirmation step entirely.
func PlaceOrderDirect(input AdminOrderInput) (*PlaceOrderResult, error) {
	if input.MaxDateRequired.Before(time.Now()) {
		return nil, ErrPastDeadline
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var result PlaceOrderResult
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		customer, err := upsertCustomer(tx, input)
		if err != nil {
			return err
		}

		productIDs := make([]uint, 0, len(input.Items))
		for _, item := range input.Items {
			productIDs = append(productIDs, item.ProductID)
		}

		batches, err := lockBatchesForProducts(tx, productIDs)
		if err != nil {
			return err
		}

		plan, err := PlanOrder(batches, input.Items, input.MaxDateRequired)
		if err != nil {
			return err
		}

		stateID := models.StatePending
		if plan.Feasible {
			stateID = models.StateConfirmedByAdmin
		}
		deliveryDate := plan.DeliveryDate
		created := models.Order{
			OrderUniqueID:       uniqueid.OrderID(input.CustomerMobile, input.MaxDateRequired),
			CustomerID:          customer.ID,
			CartID:              nil,
			MaxDateRequired:     input.MaxDateRequired,
			DeliveryDate:        &deliveryDate,
			ConfirmationStateID: stateID,
			IsActive:            true,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		result.Order = created

		if !plan.Feasible {
			return nil
		}
		if _, err := applyAllocation(tx, batches, input.Items, created.ID); err != nil {
			return err
		}
		result.Accepted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func upsertCustomer(tx *gorm.DB, input AdminOrderInput) (*models.Customer, error) {
	var existing models.Customer
	err := tx.Preload("Address").
		Where("mobile_number = ? AND is_active = ?", input.CustomerMobile, true).
		First(&existing).Error
	if err == nil {
		if existing.Name != input.CustomerName || existing.Email != input.CustomerEmail {
			existing.Name = input.CustomerName
			existing.Email = input.CustomerEmail
			if err := tx.Save(&existing).Error; err != nil {
				return nil, err
			}
		}
		addr := existing.Address
		if addr.AddressLine != input.AddressLine || addr.City != input.City ||
			addr.District != input.District || addr.PinCode != input.PinCode {
			addr.AddressLine = input.AddressLine
			addr.City = input.City
			addr.District = input.District
			addr.PinCode = input.PinCode
			if err := tx.Save(&addr).Error; err != nil {
				return nil, err
			}
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	address := models.Address{
		AddressLine: input.AddressLine,
		City:        input.City,
		District:    input.District,
		PinCode:     input.PinCode,
	}
	if err := tx.Create(&address).Error; err != nil {
		return nil, err
	}
	customer := models.Customer{
		Name:         input.CustomerName,
		Email:        input.CustomerEmail,
		MobileNumber: input.CustomerMobile,
		AddressID:    address.ID,
		IsActive:     true,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ConfirmByCustomer accepts the computed delivery date for an order that was
// placed pending. Allocation happens now, against the current batch pool,
// under the same transactional locking as placement.
func ConfirmByCustomer(orderUniqueID string) (*models.Order, error) {
	var confirmed models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var ord models.Order
		if err := tx.Where("order_unique_id = ? AND is_active = ?", orderUniqueID, true).First(&ord).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if ord.CartID == nil {
			return ErrAdminOrder
		}
		if ord.ConfirmationStateID != models.StatePending {
			return ErrInvalidTransition
		}

		var cartItems []models.CartItem
		if err := tx.Where("cart_id = ?", *ord.CartID).Order("id asc").Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		items := make([]RequirementItem, 0, len(cartItems))
		productIDs := make([]uint, 0, len(cartItems))
		for _, ci := range cartItems {
			items = append(items, RequirementItem{ProductID: ci.ProductID, Quantity: ci.Quantity})
			productIDs = append(productIDs, ci.ProductID)
		}

		batches, err := lockBatchesForProducts(tx, productIDs)
		if err != nil {
			return err
		}

		// Stock may have been sold since placement; never allocate partially.
		availability := CheckAvailability(batches, BuildRequirement(items))
		if len(availability.MissingProducts) > 0 {
			return ErrMissingProductAvailability
		}
		if !availability.Satisfied {
			return ErrInsufficientStock
		}

		if _, err := applyAllocation(tx, batches, items, ord.ID); err != nil {
			return err
		}
		if err := tx.Model(&models.Cart{}).Where("id = ?", *ord.CartID).Update("is_active", false).Error; err != nil {
			return err
		}
		ord.ConfirmationStateID = models.StateConfirmedByCustomer
		if err := tx.Model(&models.Order{}).Where("id = ?", ord.ID).
			Update("confirmation_state_id", models.StateConfirmedByCustomer).Error; err != nil {
			return err
		}
		confirmed = ord
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &confirmed, nil
}

// ConfirmByAdmin moves a customer-confirmed order to the admin-confirmed
// state.
func ConfirmByAdmin(orderUniqueID string) (*models.Order, error) {
	return transitionState(orderUniqueID, models.StateConfirmedByCustomer, models.StateConfirmedByAdmin)
}

// RevertAdminConfirmation sends an admin-confirmed order back to pending.
func RevertAdminConfirmation(orderUniqueID string) (*models.Order, error) {
	return transitionState(orderUniqueID, models.StateConfirmedByAdmin, models.StatePending)
}

// MarkShipped moves an admin-confirmed order to shipped.
func MarkShipped(orderUniqueID string) (*models.Order, error) {
	return transitionState(orderUniqueID, models.StateConfirmedByAdmin, models.StateShipped)
}

// MarkDelivered closes out a shipped order.
func MarkDelivered(orderUniqueID string) (*models.Order, error) {
	return transitionState(orderUniqueID, models.StateShipped, models.StateDelivered)
}

// Cancel marks an order cancelled from any state except delivered.
func Cancel(orderUniqueID string) (*models.Order, error) {
	var cancelled models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var ord models.Order
		if err := tx.Where("order_unique_id = ? AND is_active = ?", orderUniqueID, true).First(&ord).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if ord.ConfirmationStateID == models.StateDelivered {
			return ErrOrderDelivered
		}
		ord.ConfirmationStateID = models.StateCancelled
		if err := tx.Model(&models.Order{}).Where("id = ?", ord.ID).
			Update("confirmation_state_id", models.StateCancelled).Error; err != nil {
			return err
		}
		cancelled = ord
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

func transitionState(orderUniqueID string, from, to uint) (*models.Order, error) {
	var updated models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var ord models.Order
		if err := tx.Where("order_unique_id = ? AND is_active = ?", orderUniqueID, true).First(&ord).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if ord.ConfirmationStateID != from {
			return ErrInvalidTransition
		}
		ord.ConfirmationStateID = to
		if err := tx.Model(&models.Order{}).Where("id = ?", ord.ID).
			Update("confirmation_state_id", to).Error; err != nil {
			return err
		}
		updated = ord
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
