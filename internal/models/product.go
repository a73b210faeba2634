package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:100;not null;unique"`
	Description string          `gorm:"size:300;not null"`
	PricePerKg  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	ImagePath   string          `gorm:"size:255"` // relative to config.ProductImagePath
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
