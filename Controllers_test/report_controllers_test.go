package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/controllers"
	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/utils"
)

func setupTestDBForReports(name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Sale{},
		&models.SaleItem{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupReportRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	reportCtrl := controllers.NewReportController(db)
	router.GET("/reports/daily", reportCtrl.DailySales)
	router.GET("/reports/period", reportCtrl.PeriodSales)
	router.GET("/reports/top-products", reportCtrl.TopProducts)
	router.GET("/reports/inventory", reportCtrl.InventoryStatus)
	return router
}

func seedPaidSale(db *gorm.DB, userID uint, total float64, method string) models.Sale {
	sale := models.Sale{
		Code:          "V-REPORT",
		UserID:        userID,
		Subtotal:      total,
		Total:         total,
		Status:        models.SaleStatusPaid,
		PaymentMethod: method,
	}
	db.Create(&sale)
	return sale
}

func TestDailySalesReport(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReports("reports_daily")
	user := models.User{Username: "reporter", Password: "x", Role: "admin", Active: true}
	db.Create(&user)

	seedPaidSale(db, user.ID, 40.00, "CASH")
	seedPaidSale(db, user.ID, 60.00, "CARD")

	router := setupReportRouter(db)
	req, _ := http.NewRequest("GET", "/reports/daily", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})

	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, 100.00, summary["total_amount"])
	assert.Equal(t, float64(2), summary["sales_count"])
	assert.Equal(t, 50.00, summary["average_ticket"])

	byMethod := data["by_payment_method"].(map[string]interface{})
	cash := byMethod["CASH"].(map[string]interface{})
	assert.Equal(t, 40.00, cash["total"])
}

func TestPeriodSalesRequiresDates(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReports("reports_period")
	router := setupReportRouter(db)

	req, _ := http.NewRequest("GET", "/reports/period", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("GET", "/reports/period?from=2026-08-01&to=not-a-date", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTopProductsReport(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReports("reports_top")
	user := models.User{Username: "reporter2", Password: "x", Role: "admin", Active: true}
	db.Create(&user)

	popular := models.Product{Name: "Ceviche Mixto", Price: 30.00, Stock: 50, Active: true}
	slow := models.Product{Name: "Te", Price: 3.00, Stock: 50, Active: true}
	db.Create(&popular)
	db.Create(&slow)

	sale := seedPaidSale(db, user.ID, 93.00, "CASH")
	db.Create(&models.SaleItem{SaleID: sale.ID, ProductID: popular.ID, Quantity: 3, UnitPrice: 30.00, Subtotal: 90.00, Total: 90.00})
	db.Create(&models.SaleItem{SaleID: sale.ID, ProductID: slow.ID, Quantity: 1, UnitPrice: 3.00, Subtotal: 3.00, Total: 3.00})

	router := setupReportRouter(db)
	req, _ := http.NewRequest("GET", "/reports/top-products?limit=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	products := data["products"].([]interface{})
	assert.Len(t, products, 1)
	top := products[0].(map[string]interface{})
	assert.Equal(t, "Ceviche Mixto", top["name"])
	assert.Equal(t, float64(3), top["quantity_sold"])
}

func TestInventoryReport(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReports("reports_inventory")

	db.Create(&models.Product{Name: "Quinua", Price: 10.00, Stock: 2, MinStock: 5, Active: true})
	db.Create(&models.Product{Name: "Papa", Price: 2.00, Stock: 100, MinStock: 10, Active: true})

	router := setupReportRouter(db)
	req, _ := http.NewRequest("GET", "/reports/inventory", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	// 2 x 10.00 + 100 x 2.00
	assert.Equal(t, 220.00, summary["total_value"])
	assert.Equal(t, float64(1), summary["low_stock_products"])
	assert.Equal(t, float64(2), summary["total_products"])
}
