package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"farmstore-backend/internal/database"
	"farmstore-backend/internal/models"

	"gorm.io/gorm"
)

// KeyPrefix marks storefront agent keys so they are recognizable in logs
// and configs.
const KeyPrefix = "fs_"

// KeyLifetimeDays is how long a generated key stays valid.
const KeyLifetimeDays = 30

var ErrKeyNotFound = errors.New("api key not found")

// NewKeyValue generates a fresh key string: prefix plus 64 hex characters.
func NewKeyValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return KeyPrefix + hex.EncodeToString(buf), nil
}

// Generate creates and stores a new key.
func Generate(name string) (*models.APIKey, error) {
	value, err := NewKeyValue()
	if err != nil {
		return nil, err
	}
	key := models.APIKey{
		Key:       value,
		Name:      name,
		ExpiresAt: time.Now().AddDate(0, 0, KeyLifetimeDays),
		IsActive:  true,
	}
	if err := database.DB.Create(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// Validate reports whether the given key is active and unexpired. Expired
// keys are deactivated on first sight.
func Validate(value string) (bool, error) {
	var key models.APIKey
	err := database.DB.Where("key = ? AND is_active = ?", value, true).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if time.Now().After(key.ExpiresAt) {
		database.DB.Model(&key).Update("is_active", false)
		return false, nil
	}
	return true, nil
}

// Revoke deactivates a key by ID.
func Revoke(id uint) error {
	result := database.DB.Model(&models.APIKey{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// Refresh revokes the key and issues a replacement under the same name.
func Refresh(id uint) (*models.APIKey, error) {
	var old models.APIKey
	if err := database.DB.Where("id = ? AND is_active = ?", id, true).First(&old).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	if err := database.DB.Model(&old).Update("is_active", false).Error; err != nil {
		return nil, err
	}
	return Generate(old.Name)
}
