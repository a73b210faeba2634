package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBatch: one production run of a product. QuantityAllocated is only
// mutated by the order allocation pass; the invariant
// 0 <= QuantityAllocated <= QuantityProduced holds at all times.
type StockBatch struct {
	ID                uint   `gorm:"primaryKey"`
	BatchCode         string `gorm:"size:50;uniqueIndex;not null"`
	ProductID         uint   `gorm:"index;not null"`
	Product           Product
	QuantityProduced  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	QuantityAllocated decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	StartDate         time.Time       `gorm:"index;not null"`
	EndDate           time.Time       `gorm:"index;not null"` // production end, drives delivery estimation
	PricePerKg        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	IsActive          bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Remaining is the unallocated quantity still available in the batch.
func (b *StockBatch) Remaining() decimal.Decimal {
	return b.QuantityProduced.Sub(b.QuantityAllocated)
}
