package models

import "time"

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	FullName  string     `gorm:"type:varchar(255)" json:"full_name"`
	// Email is optional. NULL when absent so the unique index never
	// collides two accounts registered without one.
	Email *string `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"`
	Role      string     `gorm:"type:varchar(50);not null;default:'cashier'" json:"role"` // admin, cashier, waiter
	Active    bool       `gorm:"not null;default:true" json:"active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}
