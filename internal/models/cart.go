package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID           uint   `gorm:"primaryKey"`
	CartUniqueID string `gorm:"size:60;uniqueIndex;not null"`
	CustomerID   uint   `gorm:"index;not null"`
	Customer     Customer
	IsActive     bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"`
	CartID    uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null"` // kg, validated > 0 at cart creation
	CreatedAt time.Time
	UpdatedAt time.Time
}
