package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/database"
	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/router"
	"github.com/criollos/pos-backend/services"
	"github.com/criollos/pos-backend/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndSettlement walks the main flow of a shift:
// 1. Login as the seeded cashier -> token
// 2. Open an order for a table
// 3. Settle the order into a sale
// 4. Check the order is closed and stock went down
// 5. The daily report shows the sale
func TestEndToEndSettlement(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB("integration_settle")
	schema, err := database.ResolveSchema(db)
	if err != nil {
		t.Fatalf("failed to resolve schema: %v", err)
	}
	settlement := services.NewSettlementService(db, schema)
	r := router.SetupRouter(db, settlement)

	token := loginTest(t, r)
	orderID := createOrderTest(t, r, token)
	saleID := settleOrderTest(t, r, token, orderID)
	checkSideEffectsTest(t, db, orderID)
	checkDailyReportTest(t, r, token, saleID)
}

// TestRateLimiterCoversRoutes hammers an endpoint past the per-IP budget
// and expects the limiter to start refusing.
func TestRateLimiterCoversRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB("integration_ratelimit")
	schema, err := database.ResolveSchema(db)
	if err != nil {
		t.Fatalf("failed to resolve schema: %v", err)
	}
	r := router.SetupRouter(db, services.NewSettlementService(db, schema))

	limited := 0
	for i := 0; i < 60; i++ {
		req, _ := http.NewRequest("GET", "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if i == 0 && w.Code != http.StatusOK {
			t.Fatalf("first request refused: status %d", w.Code)
		}
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited == 0 {
		t.Fatal("no request was rate limited after 60 hits in one burst")
	}
}

func setupIntegrationDB(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Settings{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{Username: "cajera", Password: string(hashed), Role: "cashier", Active: true})
	db.Create(&models.Table{Name: "Mesa 1", Capacity: 4, Status: models.TableStatusAvailable})
	db.Create(&models.Product{Name: "Lomo Saltado", Price: 10.00, Stock: 8, Active: true})
	db.Create(&models.Product{Name: "Chicha Morada", Price: 5.00, Stock: 3, Active: true})
	return db
}

func loginTest(t *testing.T, r *gin.Engine) string {
	body, _ := json.Marshal(map[string]string{
		"username": "cajera",
		"password": "secret123",
	})
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: status %d body %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("login response unmarshal: %v", err)
	}
	token := response["data"].(map[string]interface{})["token"].(string)
	if token == "" {
		t.Fatal("empty token")
	}
	return token
}

func createOrderTest(t *testing.T, r *gin.Engine, token string) uint {
	body, _ := json.Marshal(map[string]interface{}{
		"table_id": 1,
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 2},
			{"product_id": 2, "quantity": 1},
		},
	})
	req, _ := http.NewRequest("POST", "/api/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order failed: status %d body %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("order response unmarshal: %v", err)
	}
	data := response["data"].(map[string]interface{})
	if total := data["total"].(float64); total != 25.00 {
		t.Fatalf("order total = %.2f, want 25.00", total)
	}
	return uint(data["id"].(float64))
}

func settleOrderTest(t *testing.T, r *gin.Engine, token string, orderID uint) uint {
	body, _ := json.Marshal(map[string]interface{}{
		"order_id":       orderID,
		"payment_method": "cash",
	})
	req, _ := http.NewRequest("POST", "/api/sales/from-order", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("settle failed: status %d body %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("sale response unmarshal: %v", err)
	}
	data := response["data"].(map[string]interface{})
	if status := data["status"].(string); status != models.SaleStatusPaid {
		t.Fatalf("sale status = %s, want %s", status, models.SaleStatusPaid)
	}
	if method := data["payment_method"].(string); method != models.PaymentMethodCash {
		t.Fatalf("payment method = %s, want %s", method, models.PaymentMethodCash)
	}
	return uint(data["id"].(float64))
}

func checkSideEffectsTest(t *testing.T, db *gorm.DB, orderID uint) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.Status != models.OrderStatusDelivered {
		t.Fatalf("order status = %s, want %s", order.Status, models.OrderStatusDelivered)
	}

	var lomo, chicha models.Product
	db.First(&lomo, 1)
	db.First(&chicha, 2)
	if lomo.Stock != 6 || chicha.Stock != 2 {
		t.Fatalf("stock after settlement = %d/%d, want 6/2", lomo.Stock, chicha.Stock)
	}
}

func checkDailyReportTest(t *testing.T, r *gin.Engine, token string, saleID uint) {
	req, _ := http.NewRequest("GET", "/api/reports/daily", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("daily report failed: status %d body %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("report response unmarshal: %v", err)
	}
	data := response["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	if count := summary["sales_count"].(float64); count < 1 {
		t.Fatalf("daily report has %v sales, want at least the one just settled (id=%d)", count, saleID)
	}
	if total := summary["total_amount"].(float64); total < 25.00 {
		t.Fatalf("daily report total = %.2f, want >= 25.00", total)
	}
}
