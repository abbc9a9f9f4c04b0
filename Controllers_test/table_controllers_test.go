package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/controllers"
	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/utils"
)

func setupTestDBForTables() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:tablestest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.Table{}); err != nil {
		panic(err)
	}
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	return router
}

func TestGetAllTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()

	db.Create(&models.Table{Name: "M1", Status: models.TableStatusAvailable})
	db.Create(&models.Table{Name: "M2", Status: models.TableStatusOccupied})

	router := setupTableRouter(db)
	req, err := http.NewRequest("GET", "/tables", nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "List of tables", response["message"])

	data := response["data"].(map[string]interface{})
	tables := data["tables"].([]interface{})
	assert.GreaterOrEqual(t, len(tables), 2)
}

func TestGetTablesFilteredByStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()

	db.Create(&models.Table{Name: "F1", Status: models.TableStatusReserved})

	router := setupTableRouter(db)
	req, _ := http.NewRequest("GET", "/tables?status=reserved", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	for _, raw := range data["tables"].([]interface{}) {
		table := raw.(map[string]interface{})
		assert.Equal(t, models.TableStatusReserved, table["status"])
	}
}

func TestCreateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()
	router := setupTableRouter(db)

	body, _ := json.Marshal(map[string]interface{}{
		"name":     "Terraza 1",
		"capacity": 6,
	})
	req, _ := http.NewRequest("POST", "/tables", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Terraza 1", data["name"])
	assert.Equal(t, float64(6), data["capacity"])
	assert.Equal(t, models.TableStatusAvailable, data["status"])
}

func TestUpdateTableStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()

	table := models.Table{Name: "C1", Status: models.TableStatusAvailable}
	db.Create(&table)

	router := setupTableRouter(db)

	body, _ := json.Marshal(map[string]string{"status": models.TableStatusOccupied})
	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, _ := http.NewRequest("PATCH", url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Table updated", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, models.TableStatusOccupied, data["status"])
}

func TestUpdateTableRejectsUnknownStatus(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables()

	table := models.Table{Name: "X1", Status: models.TableStatusAvailable}
	db.Create(&table)

	router := setupTableRouter(db)

	body, _ := json.Marshal(map[string]string{"status": "flooded"})
	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, _ := http.NewRequest("PATCH", url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
