package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/database"
	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/utils"
)

type ProductController struct {
	DB     *gorm.DB
	Schema *database.Schema
}

func NewProductController(db *gorm.DB, schema *database.Schema) *ProductController {
	return &ProductController{DB: db, Schema: schema}
}

// stockColumn returns the physical stock column resolved at startup,
// falling back to the gorm model default when no schema was injected.
func stockColumn(schema *database.Schema) string {
	if schema != nil && schema.ProductStockCol != "" {
		return schema.ProductStockCol
	}
	return "stock"
}

// GetAllProducts lists products with optional category and active filters.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	query := pc.DB.Preload("Category")

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		if id, err := strconv.Atoi(category); err == nil {
			query = query.Where("category_id = ?", id)
		} else {
			query = query.Joins("JOIN categories ON categories.id = products.category_id").
				Where("categories.name = ?", category)
		}
	}

	if active := c.Query("active"); active != "" {
		query = query.Where("products.active = ?", active == "true" || active == "1")
	}

	var products []models.Product
	if err := query.Order("products.name ASC").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of products", gin.H{
		"products": products,
		"total":    len(products),
	})
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	var product models.Product
	if err := pc.DB.Preload("Category").First(&product, c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req struct {
		Code        string  `json:"code"`
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		Cost        float64 `json:"cost"`
		Stock       int     `json:"stock"`
		MinStock    int     `json:"min_stock"`
		CategoryID  *uint   `json:"category_id"`
		Active      *bool   `json:"active"`
		ImageURL    *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product := models.Product{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Price:       utils.Round2(req.Price),
		Cost:        utils.Round2(req.Cost),
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		CategoryID:  req.CategoryID,
		Active:      true,
		ImageURL:    req.ImageURL,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Product created: %s (id=%d)", product.Name, product.ID)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := pc.DB.First(&product, c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	var req struct {
		Code        *string  `json:"code"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Cost        *float64 `json:"cost"`
		Stock       *int     `json:"stock"`
		MinStock    *int     `json:"min_stock"`
		CategoryID  *uint    `json:"category_id"`
		Active      *bool    `json:"active"`
		ImageURL    *string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Code != nil {
		updates["code"] = *req.Code
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = utils.Round2(*req.Price)
	}
	if req.Cost != nil {
		updates["cost"] = utils.Round2(*req.Cost)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("stock cannot be negative"))
			return
		}
		updates["stock"] = *req.Stock
	}
	if req.MinStock != nil {
		updates["min_stock"] = *req.MinStock
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no fields to update"))
		return
	}

	if err := pc.DB.Model(&product).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct is a soft delete: the product stays referenced by old
// order and sale lines.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := pc.DB.First(&product, c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	if err := pc.DB.Model(&product).Update("active", false).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"id": product.ID})
}

// AdjustStock adds or subtracts inventory. Subtraction is guarded the same
// way as sale settlement so stock never goes negative.
func (pc *ProductController) AdjustStock(c *gin.Context) {
	var req struct {
		Quantity  int    `json:"quantity" binding:"required,gt=0"`
		Operation string `json:"operation" binding:"required"` // add or subtract
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, c.Param("product_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	stockCol := stockColumn(pc.Schema)

	switch req.Operation {
	case "add":
		if err := pc.DB.Exec(
			fmt.Sprintf("UPDATE products SET %[1]s = %[1]s + ? WHERE id = ?", stockCol),
			req.Quantity, product.ID,
		).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	case "subtract":
		res := pc.DB.Exec(
			fmt.Sprintf("UPDATE products SET %[1]s = %[1]s - ? WHERE id = ? AND %[1]s >= ?", stockCol),
			req.Quantity, product.ID, req.Quantity,
		)
		if res.Error != nil {
			utils.RespondError(c, http.StatusInternalServerError, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("insufficient stock for %s", product.Name))
			return
		}
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New(`operation must be "add" or "subtract"`))
		return
	}

	if err := pc.DB.First(&product, product.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Stock updated", product)
}
