package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

type orderItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Notes     string `json:"notes"`
}

// GetAllOrders lists orders with their lines, newest first. Supports
// ?status= and ?table= filters.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("Items").Preload("Items.Product").Preload("Table")

	if status := c.Query("status"); status != "" {
		normalized := models.NormalizeOrderStatus(status)
		if normalized == "" {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order status %q", status))
			return
		}
		query = query.Where("orders.status = ?", normalized)
	}

	if table := c.Query("table"); table != "" {
		query = query.Joins("JOIN tables ON tables.id = orders.table_id").
			Where("tables.name = ?", table)
	}

	var orders []models.Order
	if err := query.Order("orders.created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	var order models.Order
	if err := oc.DB.Preload("Items").Preload("Items.Product").Preload("Table").
		First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder opens a new order for a table. Unit prices are snapshotted
// from the product at order time.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		TableID uint               `json:"table_id" binding:"required"`
		Items   []orderItemRequest `json:"items" binding:"required,min=1"`
		Notes   string             `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID, _ := currentUserID(c)

	var table models.Table
	if err := oc.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		order = models.Order{
			Code:    newOrderCode(),
			TableID: table.ID,
			UserID:  userID,
			Status:  models.OrderStatusPending,
			Notes:   req.Notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, item := range req.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return fmt.Errorf("product %d not found", item.ProductID)
			}

			line := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
				Notes:     item.Notes,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			total += utils.Round2(float64(item.Quantity) * product.Price)
		}

		order.Total = utils.Round2(total)
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.DB.Preload("Items").Preload("Items.Product").Preload("Table").
		First(&order, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %s created for table %s (total=%.2f)", order.Code, table.Name, order.Total)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// UpdateOrderStatus moves an order through the pipeline. Transitions are
// forward-only; CANCELLED is reachable from any non-terminal state.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	target := models.NormalizeOrderStatus(req.Status)
	if target == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order status %q", req.Status))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if !models.CanTransition(order.Status, target) {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("cannot change order status from %s to %s", order.Status, target))
		return
	}

	order.Status = target
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %d status changed to %s", order.ID, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// AddItems appends products to an open order, merging quantities with
// existing lines for the same product, and recomputes the total.
func (oc *OrderController) AddItems(c *gin.Context) {
	var req struct {
		Items []orderItemRequest `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if order.IsTerminal() {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("cannot add items to a closed or cancelled order"))
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return fmt.Errorf("product %d not found", item.ProductID)
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("insufficient stock for %s", product.Name)
			}

			var existing models.OrderItem
			err := tx.Where("order_id = ? AND product_id = ?", order.ID, product.ID).
				First(&existing).Error
			switch {
			case err == nil:
				existing.Quantity += item.Quantity
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				line := models.OrderItem{
					OrderID:   order.ID,
					ProductID: product.ID,
					Quantity:  item.Quantity,
					UnitPrice: product.Price,
					Notes:     item.Notes,
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		// Recompute the total from the lines instead of accumulating, so
		// merged quantities cannot drift.
		var total float64
		row := tx.Model(&models.OrderItem{}).
			Where("order_id = ?", order.ID).
			Select("COALESCE(SUM(quantity * unit_price), 0)").Row()
		if err := row.Scan(&total); err != nil {
			return err
		}

		return tx.Model(&order).Update("total", utils.Round2(total)).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.DB.Preload("Items").Preload("Items.Product").Preload("Table").
		First(&order, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Items added to order", order)
}

func newOrderCode() string {
	return "P-" + strings.ToUpper(uuid.NewString()[:8])
}
