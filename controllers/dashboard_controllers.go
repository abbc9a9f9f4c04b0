package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type dashboardStats struct {
	TodaySales    int     `json:"today_sales"`
	TodayRevenue  float64 `json:"today_revenue"`
	TodayItems    int     `json:"today_items"`
	ActiveOrders  int     `json:"active_orders"`
	TotalProducts int     `json:"total_products"`
	LowStock      int     `json:"low_stock"`
}

// GetStats aggregates the headline numbers shown on the admin dashboard.
func (dc *DashboardController) GetStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")
	var stats dashboardStats

	row := dc.DB.Model(&models.Sale{}).
		Select("COUNT(*), COALESCE(SUM(total), 0)").
		Where("DATE(created_at) = ? AND status = ?", today, models.SaleStatusPaid).
		Row()
	if err := row.Scan(&stats.TodaySales, &stats.TodayRevenue); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	row = dc.DB.Model(&models.SaleItem{}).
		Select("COALESCE(SUM(sale_items.quantity), 0)").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("DATE(sales.created_at) = ? AND sales.status = ?", today, models.SaleStatusPaid).
		Row()
	if err := row.Scan(&stats.TodayItems); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var activeOrders int64
	if err := dc.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusInProgress, models.OrderStatusReady}).
		Count(&activeOrders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	stats.ActiveOrders = int(activeOrders)

	var totalProducts int64
	if err := dc.DB.Model(&models.Product{}).Where("active = ?", true).Count(&totalProducts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	stats.TotalProducts = int(totalProducts)

	var lowStock int64
	if err := dc.DB.Model(&models.Product{}).
		Where("active = ? AND stock < min_stock", true).
		Count(&lowStock).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	stats.LowStock = int(lowStock)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetSalesByHour returns today's paid sales bucketed per hour.
func (dc *DashboardController) GetSalesByHour(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	type hourBucket struct {
		Hour  string  `json:"hour"`
		Count int     `json:"count"`
		Total float64 `json:"total"`
	}
	// strftime on sqlite, DATE_FORMAT on mysql.
	hourExpr := "strftime('%H', created_at)"
	if dc.DB.Dialector.Name() == "mysql" {
		hourExpr = "DATE_FORMAT(created_at, '%H')"
	}

	var buckets []hourBucket
	err := dc.DB.Model(&models.Sale{}).
		Select(hourExpr+" AS hour, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("DATE(created_at) = ? AND status = ?", today, models.SaleStatusPaid).
		Group("hour").
		Order("hour ASC").
		Scan(&buckets).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Sales by hour", buckets)
}

// GetPopularProducts lists today's five best sellers.
func (dc *DashboardController) GetPopularProducts(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	type popularProduct struct {
		ProductID    uint   `json:"product_id"`
		Name         string `json:"name"`
		QuantitySold int    `json:"quantity_sold"`
	}
	var products []popularProduct
	err := dc.DB.Model(&models.SaleItem{}).
		Select("products.id AS product_id, products.name AS name, SUM(sale_items.quantity) AS quantity_sold").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("DATE(sales.created_at) = ? AND sales.status = ?", today, models.SaleStatusPaid).
		Group("products.id, products.name").
		Order("quantity_sold DESC").
		Limit(5).
		Scan(&products).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Popular products", products)
}

// GetRecentOrders lists the ten most recent orders with their tables.
func (dc *DashboardController) GetRecentOrders(c *gin.Context) {
	var orders []models.Order
	if err := dc.DB.Preload("Table").
		Order("created_at DESC").
		Limit(10).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recent orders", orders)
}

// GetTableOverview counts tables per status.
func (dc *DashboardController) GetTableOverview(c *gin.Context) {
	type statusCount struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}
	var counts []statusCount
	if err := dc.DB.Model(&models.Table{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table overview", counts)
}
