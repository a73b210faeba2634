package database

import (
	"log"

	"farmstore-backend/internal/config"
	"farmstore-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.APIKey{},
		&models.Address{},
		&models.Customer{},
		&models.Product{},
		&models.StockBatch{},
		&models.Cart{},
		&models.CartItem{},
		&models.OrderConfirmationState{},
		&models.Order{},
		&models.OrderBatchAllocation{},
		&models.AuditLog{},
		&models.ContactMessage{},
		&models.Enquiry{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	seedConfirmationStates()

	log.Println("database connected, migration complete")
}

// seedConfirmationStates inserts the fixed order state rows. IDs are stable
// and referenced by the models.State* constants.
func seedConfirmationStates() {
	states := []models.OrderConfirmationState{
		{ID: models.StatePending, Key: "approval_pending_by_customer", Label: "Pending"},
		{ID: models.StateConfirmedByCustomer, Key: "confirmed_by_customer", Label: "Confirmed By Customer"},
		{ID: models.StateConfirmedByAdmin, Key: "approved_by_admin", Label: "Confirmed By Admin"},
		{ID: models.StateShipped, Key: "shipped", Label: "Shipped"},
		{ID: models.StateDelivered, Key: "delivered", Label: "Delivered"},
		{ID: models.StateCancelled, Key: "cancelled", Label: "Cancelled"},
	}
	for _, s := range states {
		var existing models.OrderConfirmationState
		if err := DB.First(&existing, "id = ?", s.ID).Error; err != nil {
			if err := DB.Create(&s).Error; err != nil {
				log.Fatalf("could not seed order confirmation state %q: %v", s.Key, err)
			}
		}
	}
}
