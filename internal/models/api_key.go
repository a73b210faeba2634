package models

import "time"

// APIKey: bearer key for the storefront agent endpoints.
// Keys expire after 30 days and are deactivated, never deleted.
type APIKey struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"size:100;uniqueIndex;not null"`
	Name      string    `gorm:"size:100"`
	ExpiresAt time.Time `gorm:"index;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
