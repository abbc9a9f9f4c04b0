package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/utils"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

type salesSummary struct {
	TotalAmount   float64 `json:"total_amount"`
	SalesCount    int     `json:"sales_count"`
	AverageTicket float64 `json:"average_ticket"`
}

func summarize(sales []models.Sale) salesSummary {
	var s salesSummary
	for _, sale := range sales {
		s.TotalAmount += sale.Total
	}
	s.TotalAmount = utils.Round2(s.TotalAmount)
	s.SalesCount = len(sales)
	if s.SalesCount > 0 {
		s.AverageTicket = utils.Round2(s.TotalAmount / float64(s.SalesCount))
	}
	return s
}

// DailySales reports today's paid sales with a per-payment-method
// breakdown.
func (rc *ReportController) DailySales(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var sales []models.Sale
	if err := rc.DB.
		Where("DATE(created_at) = ? AND status = ?", today, models.SaleStatusPaid).
		Order("created_at DESC").
		Find(&sales).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type methodTotals struct {
		Count int     `json:"count"`
		Total float64 `json:"total"`
	}
	byMethod := map[string]*methodTotals{}
	for _, sale := range sales {
		mt, ok := byMethod[sale.PaymentMethod]
		if !ok {
			mt = &methodTotals{}
			byMethod[sale.PaymentMethod] = mt
		}
		mt.Count++
		mt.Total = utils.Round2(mt.Total + sale.Total)
	}

	utils.RespondJSON(c, http.StatusOK, "Daily sales report", gin.H{
		"date":              today,
		"summary":           summarize(sales),
		"by_payment_method": byMethod,
		"sales":             sales,
	})
}

// PeriodSales reports paid sales between ?from= and ?to= (inclusive,
// YYYY-MM-DD).
func (rc *ReportController) PeriodSales(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("from and to dates are required"))
		return
	}

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("from must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("to must be YYYY-MM-DD"))
		return
	}
	end = end.Add(24*time.Hour - time.Nanosecond)

	var sales []models.Sale
	if err := rc.DB.
		Where("created_at BETWEEN ? AND ? AND status = ?", start, end, models.SaleStatusPaid).
		Order("created_at DESC").
		Find(&sales).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Period sales report", gin.H{
		"period":  gin.H{"from": from, "to": to},
		"summary": summarize(sales),
		"sales":   sales,
	})
}

// TopProducts lists the best-selling products across paid sales.
func (rc *ReportController) TopProducts(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	type topProduct struct {
		ProductID    uint    `json:"product_id"`
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		QuantitySold int     `json:"quantity_sold"`
		TotalSold    float64 `json:"total_sold"`
	}

	var products []topProduct
	err := rc.DB.Model(&models.SaleItem{}).
		Select("products.id AS product_id, products.name AS name, products.price AS price, SUM(sale_items.quantity) AS quantity_sold, SUM(sale_items.total) AS total_sold").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.status = ?", models.SaleStatusPaid).
		Group("products.id, products.name, products.price").
		Having("SUM(sale_items.quantity) > 0").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&products).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Top products report", gin.H{
		"products": products,
		"total":    len(products),
	})
}

// CashClose summarizes the paid sales of one day (?date=, default today)
// for the end-of-day register close.
func (rc *ReportController) CashClose(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}

	var sales []models.Sale
	if err := rc.DB.
		Where("DATE(created_at) = ? AND status = ?", date, models.SaleStatusPaid).
		Find(&sales).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cash close report", gin.H{
		"date":    date,
		"summary": summarize(sales),
		"sales":   sales,
	})
}

// InventoryStatus reports stock levels, inventory value, and how many
// products sit below their minimum.
func (rc *ReportController) InventoryStatus(c *gin.Context) {
	var products []models.Product
	if err := rc.DB.Order("stock ASC").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var totalValue float64
	lowStock := 0
	for _, p := range products {
		totalValue += p.Price * float64(p.Stock)
		if p.Stock < p.MinStock {
			lowStock++
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Inventory report", gin.H{
		"summary": gin.H{
			"total_products":     len(products),
			"total_value":        utils.Round2(totalValue),
			"low_stock_products": lowStock,
		},
		"products": products,
	})
}

// WeeklySales returns a per-day total series for the last seven days.
func (rc *ReportController) WeeklySales(c *gin.Context) {
	start := time.Now().AddDate(0, 0, -6)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	type dayTotal struct {
		Date  string  `json:"date"`
		Total float64 `json:"total"`
	}
	var rows []dayTotal
	err := rc.DB.Model(&models.Sale{}).
		Select("DATE(created_at) AS date, COALESCE(SUM(total), 0) AS total").
		Where("created_at >= ? AND status = ?", start, models.SaleStatusPaid).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totals := map[string]float64{}
	for _, row := range rows {
		totals[row.Date] = row.Total
	}

	// Fill gaps so the series always has seven points.
	var series []dayTotal
	var grandTotal float64
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		total := utils.Round2(totals[day])
		series = append(series, dayTotal{Date: day, Total: total})
		grandTotal += total
	}

	utils.RespondJSON(c, http.StatusOK, "Weekly sales report", gin.H{
		"series": series,
		"total":  utils.Round2(grandTotal),
	})
}
