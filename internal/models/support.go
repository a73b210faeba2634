package models

import "time"

// ContactMessage: public contact-us form submission.
type ContactMessage struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Mobile    string `gorm:"size:15;not null"`
	Email     string `gorm:"size:100"`
	Message   string `gorm:"size:1000;not null"`
	CreatedAt time.Time
}

// Enquiry: product enquiry from the storefront.
type Enquiry struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Mobile    string `gorm:"size:15;not null"`
	Email     string `gorm:"size:100"`
	Message   string `gorm:"size:1000;not null"`
	ProductID *uint  `gorm:"index"`
	Product   *Product
	CreatedAt time.Time
}
