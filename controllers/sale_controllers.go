package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/database"
	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/services"
	"github.com/criollos/pos-backend/utils"
)

type SaleController struct {
	DB         *gorm.DB
	Settlement *services.SettlementService
}

func NewSaleController(db *gorm.DB, settlement *services.SettlementService) *SaleController {
	return &SaleController{DB: db, Settlement: settlement}
}

// GetAllSales lists sales with their lines, newest first. Supports
// ?status= and ?payment_method= filters.
func (sc *SaleController) GetAllSales(c *gin.Context) {
	query := sc.DB.Preload("Items").Preload("Items.Product")

	if status := c.Query("status"); status != "" {
		query = query.Where("sales.status = ?", strings.ToUpper(status))
	}
	if method := c.Query("payment_method"); method != "" {
		query = query.Where("sales.payment_method = ?", strings.ToUpper(method))
	}

	var sales []models.Sale
	if err := query.Order("sales.created_at DESC").Find(&sales).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of sales", gin.H{
		"sales": sales,
		"total": len(sales),
	})
}

func (sc *SaleController) GetSaleByID(c *gin.Context) {
	var sale models.Sale
	if err := sc.DB.Preload("Items").Preload("Items.Product").
		First(&sale, c.Param("sale_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("sale not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sale detail", sale)
}

// CreateFromOrder settles an open order into a paid sale.
func (sc *SaleController) CreateFromOrder(c *gin.Context) {
	var req struct {
		OrderID       uint   `json:"order_id" binding:"required"`
		PaymentMethod string `json:"payment_method"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userID, _ := currentUserID(c)

	sale, err := sc.Settlement.Settle(c.Request.Context(), services.SettleInput{
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		UserID:        userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrOrderClosed):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrInsufficientStock):
			utils.RespondError(c, http.StatusConflict, err)
		case errors.Is(err, services.ErrSchemaIncompatible):
			utils.RespondError(c, http.StatusInternalServerError, err)
		default:
			utils.ErrorLogger.Printf("Settlement of order %d failed: %v", req.OrderID, err)
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.InfoLogger.Printf("Sale %s created from order %d (total=%.2f, method=%s)",
		sale.Code, req.OrderID, sale.Total, sale.PaymentMethod)
	utils.RespondJSON(c, http.StatusCreated, "Sale created and order closed", sale)
}

// VoidSale cancels a paid sale and restores the stock its lines consumed.
func (sc *SaleController) VoidSale(c *gin.Context) {
	var sale models.Sale
	if err := sc.DB.Preload("Items").First(&sale, c.Param("sale_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("sale not found"))
		return
	}

	if sale.Status == models.SaleStatusVoided {
		utils.RespondError(c, http.StatusBadRequest, errors.New("sale is already voided"))
		return
	}

	var schema *database.Schema
	if sc.Settlement != nil {
		schema = sc.Settlement.Schema
	}
	stockCol := stockColumn(schema)

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			res := tx.Exec(
				fmt.Sprintf("UPDATE products SET %[1]s = %[1]s + ? WHERE id = ?", stockCol),
				item.Quantity, item.ProductID,
			)
			if res.Error != nil {
				return res.Error
			}
		}

		now := time.Now()
		return tx.Model(&sale).Updates(map[string]interface{}{
			"status":    models.SaleStatusVoided,
			"voided_at": &now,
		}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Sale %d voided", sale.ID)
	utils.RespondJSON(c, http.StatusOK, "Sale voided", sale)
}
