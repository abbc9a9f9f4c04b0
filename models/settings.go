package models

import "time"

// Settings is a single-row table holding restaurant-wide configuration.
type Settings struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RestaurantName string    `gorm:"type:varchar(255);not null;default:'CriolloS'" json:"restaurant_name"`
	Address        string    `gorm:"type:varchar(255)" json:"address"`
	Phone          string    `gorm:"type:varchar(50)" json:"phone"`
	Email          string    `gorm:"type:varchar(255)" json:"email"`
	LogoURL        string    `gorm:"type:varchar(255)" json:"logo_url"`
	TaxID          string    `gorm:"type:varchar(50)" json:"tax_id"`
	TaxRate        float64   `gorm:"type:decimal(5,2);not null;default:18.00" json:"tax_rate"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
