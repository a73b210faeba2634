package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confirmation state IDs match the seeded order_confirmation_states rows.
const (
	StatePending             uint = 1
	StateConfirmedByCustomer uint = 2
	StateConfirmedByAdmin    uint = 3
	StateShipped             uint = 4
	StateDelivered           uint = 5
	StateCancelled           uint = 6
)

// OrderConfirmationState: lookup table seeded at migration time.
type OrderConfirmationState struct {
	ID    uint   `gorm:"primaryKey"`
	Key   string `gorm:"size:50;uniqueIndex;not null"`
	Label string `gorm:"size:100;not null"`
}

type Order struct {
	ID                  uint   `gorm:"primaryKey"`
	OrderUniqueID       string `gorm:"size:60;uniqueIndex;not null"`
	CustomerID          uint   `gorm:"index;not null"`
	Customer            Customer
	CartID              *uint `gorm:"index"` // nil for admin-direct orders
	MaxDateRequired     time.Time
	DeliveryDate        *time.Time // nil until an estimate exists
	ConfirmationStateID uint       `gorm:"index;not null"`
	ConfirmationState   OrderConfirmationState
	IsActive            bool `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Allocations []OrderBatchAllocation `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderBatchAllocation: quantity taken from one batch for one order/product
// pair. Rows are created in bulk when an order is allocated and are owned by
// the order; they are never written independently.
type OrderBatchAllocation struct {
	ID                uint `gorm:"primaryKey"`
	OrderID           uint `gorm:"index;not null"`
	ProductID         uint `gorm:"index;not null"`
	Product           Product
	BatchID           uint `gorm:"index;not null"`
	Batch             StockBatch      `gorm:"foreignKey:BatchID"`
	QuantityAllocated decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt         time.Time
}
