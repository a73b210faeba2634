package models

import "time"

type Address struct {
	ID          uint   `gorm:"primaryKey"`
	AddressLine string `gorm:"size:255;not null"`
	City        string `gorm:"size:100;not null"`
	District    string `gorm:"size:100;not null"`
	PinCode     string `gorm:"size:10"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Customer struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100"`
	MobileNumber string `gorm:"size:15;index;not null"`
	AddressID    uint   `gorm:"not null"`
	Address      Address
	IsActive     bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
