package models

import (
	"strings"
	"time"
)

const (
	OrderStatusPending    = "PENDING"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusReady      = "READY"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// orderStatusRank orders the forward progression of an order. Terminal
// states (DELIVERED, CANCELLED) are never a valid source of a transition.
var orderStatusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusInProgress: 1,
	OrderStatusReady:      2,
	OrderStatusDelivered:  3,
}

type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Code      string      `gorm:"type:varchar(50)" json:"code"`
	TableID   uint        `gorm:"not null" json:"table_id"`
	Table     Table       `gorm:"foreignKey:TableID" json:"table"`
	UserID    uint        `gorm:"not null" json:"user_id"`
	User      User        `gorm:"foreignKey:UserID" json:"-"`
	Status    string      `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Notes     string      `gorm:"type:text" json:"notes"`
	Total     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
}

// IsTerminal reports whether the order can no longer change state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// NormalizeOrderStatus maps user input to a known status constant.
// Returns "" for anything unrecognized.
func NormalizeOrderStatus(status string) string {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return s
	}
	return ""
}

// CanTransition reports whether an order may move from one status to
// another: strictly forward through the cooking pipeline, or to CANCELLED
// from any non-terminal state.
func CanTransition(from, to string) bool {
	if from == OrderStatusDelivered || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, okFrom := orderStatusRank[from]
	toRank, okTo := orderStatusRank[to]
	return okFrom && okTo && toRank > fromRank
}
