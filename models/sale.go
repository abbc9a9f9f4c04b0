package models

import "time"

const (
	SaleStatusPending = "PENDING"
	SaleStatusPaid    = "PAID"
	SaleStatusVoided  = "VOIDED"

	PaymentMethodCash = "CASH"
)

type Sale struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Code          string     `gorm:"type:varchar(50)" json:"code"`
	OrderID       *uint      `gorm:"index" json:"order_id,omitempty"`
	UserID        uint       `gorm:"not null" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID" json:"-"`
	Subtotal      float64    `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	Tax           float64    `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	Discount      float64    `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	Total         float64    `gorm:"type:decimal(10,2);not null" json:"total"`
	Status        string     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentMethod string     `gorm:"type:varchar(30);not null;default:'CASH'" json:"payment_method"`
	Notes         string     `gorm:"type:text" json:"notes"`
	Items         []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
	VoidedAt      *time.Time `json:"voided_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}
