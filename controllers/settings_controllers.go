package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/criollos/pos-backend/models"
	"github.com/criollos/pos-backend/utils"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// loadSettings returns the singleton row, creating it with defaults on
// first access.
func (sc *SettingsController) loadSettings() (*models.Settings, error) {
	var settings models.Settings
	err := sc.DB.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.Settings{RestaurantName: "CriolloS", TaxRate: 18.00}
		if err := sc.DB.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	settings, err := sc.loadSettings()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings retrieved", settings)
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var input struct {
		RestaurantName *string  `json:"restaurant_name"`
		Address        *string  `json:"address"`
		Phone          *string  `json:"phone"`
		Email          *string  `json:"email"`
		LogoURL        *string  `json:"logo_url"`
		TaxID          *string  `json:"tax_id"`
		TaxRate        *float64 `json:"tax_rate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	settings, err := sc.loadSettings()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	updates := map[string]interface{}{}
	if input.RestaurantName != nil {
		if *input.RestaurantName == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("restaurant_name cannot be empty"))
			return
		}
		updates["restaurant_name"] = *input.RestaurantName
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.LogoURL != nil {
		updates["logo_url"] = *input.LogoURL
	}
	if input.TaxID != nil {
		updates["tax_id"] = *input.TaxID
	}
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 100 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("tax_rate must be between 0 and 100"))
			return
		}
		updates["tax_rate"] = *input.TaxRate
	}

	if len(updates) > 0 {
		if err := sc.DB.Model(settings).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Settings updated", settings)
}
