package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	UserCode     string   `gorm:"size:50;index"`
	Role         UserRole `gorm:"size:20;not null"`
	IsActive     bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken: long-lived token backing the short-lived access JWT.
// Revoked on logout, expired rows are cleaned up lazily.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"size:128;uniqueIndex;not null"`
	UserID    uint   `gorm:"index;not null"`
	User      User
	ExpiresAt time.Time `gorm:"index;not null"`
	IsRevoked bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}
