package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/database"
	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/utils"
)

// settleTimeout bounds the settlement transaction. A transaction stuck on
// locks past this deadline is rolled back and surfaced to the caller.
const settleTimeout = 15 * time.Second

// SettlementService converts an open order into a finalized sale as one
// all-or-nothing unit of work: create the sale and its lines, decrement
// stock per line, close the order.
type SettlementService struct {
	DB     *gorm.DB
	Schema *database.Schema
}

func NewSettlementService(db *gorm.DB, schema *database.Schema) *SettlementService {
	return &SettlementService{DB: db, Schema: schema}
}

type SettleInput struct {
	OrderID       uint
	PaymentMethod string // normalized to uppercase, defaults to CASH
	Notes         string
	UserID        uint // acting cashier
}

// Settle runs the whole workflow in a single serializable transaction.
// On any error the transaction rolls back and no sale, sale line or stock
// mutation persists.
func (s *SettlementService) Settle(ctx context.Context, in SettleInput) (*models.Sale, error) {
	if in.OrderID == 0 {
		return nil, fmt.Errorf("%w: order_id is required", ErrInvalidInput)
	}
	if s.Schema == nil {
		return nil, ErrSchemaIncompatible
	}

	method := strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = models.PaymentMethodCash
	}

	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	var sale models.Sale
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, in.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.IsTerminal() {
			return ErrOrderClosed
		}

		sale = models.Sale{
			Code:          newSaleCode(),
			OrderID:       &order.ID,
			UserID:        in.UserID,
			Subtotal:      order.Total,
			Total:         order.Total,
			Status:        models.SaleStatusPaid,
			PaymentMethod: method,
			Notes:         in.Notes,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		for _, line := range order.Items {
			subtotal := utils.Round2(float64(line.Quantity) * line.UnitPrice)
			item := models.SaleItem{
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  subtotal,
				Total:     subtotal,
			}
			if err := tx.Table(s.Schema.SaleItemsTable).Create(&item).Error; err != nil {
				return err
			}

			// Guarded conditional decrement: a single statement so
			// concurrent settlements over the same product cannot drive
			// stock negative.
			stockCol := s.Schema.ProductStockCol
			res := tx.Exec(
				fmt.Sprintf("UPDATE products SET %[1]s = %[1]s - ? WHERE id = ? AND %[1]s >= ?", stockCol),
				line.Quantity, line.ProductID, line.Quantity,
			)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %d needs %d units", ErrInsufficientStock, line.ProductID, line.Quantity)
			}
		}

		order.Status = models.OrderStatusDelivered
		return tx.Save(&order).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		First(&sale, sale.ID).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func newSaleCode() string {
	return "V-" + strings.ToUpper(uuid.NewString()[:8])
}
