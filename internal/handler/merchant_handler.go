package handler

import (
	"net/http"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/logger"
	"github.com/EduardoAE22/komerciohub/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListMerchants lists the active merchants owned by the requesting user
func ListMerchants(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	var merchants []model.Merchant
	result := database.GetDB().
		Where("owner_id = ?", claims.UserID).
		Scopes(model.ActiveOnly).
		Order("id").
		Find(&merchants)
	if result.Error != nil {
		log.Error("Failed to list merchants", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list merchants"})
	}

	return c.JSON(http.StatusOK, merchants)
}

// GetMerchant retrieves one active merchant of the requesting user
func GetMerchant(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid merchant id"})
	}

	var merchant model.Merchant
	result := database.GetDB().
		Where("id = ? AND owner_id = ?", id, claims.UserID).
		Scopes(model.ActiveOnly).
		First(&merchant)
	if result.Error != nil {
		log.Warn("Merchant not found", zap.Uint("id", id), zap.Uint("user_id", claims.UserID))
		return c.JSON(http.StatusNotFound, echo.Map{"message": "merchant not found"})
	}

	return c.JSON(http.StatusOK, merchant)
}

// CreateMerchant creates a merchant owned by the requesting user
func CreateMerchant(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("merchant", "create")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
	}

	merchant := model.Merchant{
		OwnerID:     claims.UserID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if result := database.GetDB().Create(&merchant); result.Error != nil {
		log.Error("Failed to create merchant", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create merchant"})
	}

	log.Info("Merchant created",
		zap.Uint("id", merchant.ID),
		zap.Uint("owner_id", merchant.OwnerID),
		zap.String("name", merchant.Name))

	return c.JSON(http.StatusCreated, merchant)
}

// UpdateMerchant applies a partial update to a merchant of the requesting user
func UpdateMerchant(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("merchant", "update")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid merchant id"})
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	var merchant model.Merchant
	result := database.GetDB().
		Where("id = ? AND owner_id = ?", id, claims.UserID).
		Scopes(model.ActiveOnly).
		First(&merchant)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "merchant not found"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if result := database.GetDB().Model(&merchant).Updates(updates); result.Error != nil {
			log.Error("Failed to update merchant", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update merchant"})
		}
	}

	return c.JSON(http.StatusOK, merchant)
}

// DeleteMerchant soft-deletes a merchant of the requesting user
func DeleteMerchant(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("merchant", "delete")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid merchant id"})
	}

	var merchant model.Merchant
	result := database.GetDB().
		Where("id = ? AND owner_id = ?", id, claims.UserID).
		Scopes(model.ActiveOnly).
		First(&merchant)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "merchant not found"})
	}

	if result := database.GetDB().Model(&merchant).Update("is_active", false); result.Error != nil {
		log.Error("Failed to deactivate merchant", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to deactivate merchant"})
	}

	log.Info("Merchant deactivated", zap.Uint("id", merchant.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "merchant deactivated",
		"merchant": merchant,
	})
}
