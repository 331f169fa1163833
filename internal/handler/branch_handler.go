package handler

import (
	"net/http"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/internal/ownership"
	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/logger"
	"github.com/EduardoAE22/komerciohub/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateBranch creates a branch under a merchant of the requesting user
func CreateBranch(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("branch", "create")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	var req struct {
		MerchantID uint   `json:"merchant_id"`
		Name       string `json:"name"`
		Address    string `json:"address"`
		City       string `json:"city"`
		Phone      string `json:"phone"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	if req.MerchantID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "merchant_id and name are required"})
	}

	allowed, err := ownership.Authorize(database.GetDB(), claims.UserID, req.MerchantID)
	if err != nil {
		log.Error("Failed to check merchant access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create branch"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this merchant"})
	}

	branch := model.Branch{
		MerchantID: req.MerchantID,
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		Phone:      req.Phone,
		IsActive:   true,
	}

	if result := database.GetDB().Create(&branch); result.Error != nil {
		log.Error("Failed to create branch", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create branch"})
	}

	log.Info("Branch created", zap.Uint("id", branch.ID), zap.Uint("merchant_id", branch.MerchantID))

	return c.JSON(http.StatusCreated, branch)
}

// ListBranches lists the active branches of a merchant
func ListBranches(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	merchantID := merchantIDQuery(c)
	if merchantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "merchant_id is required in query"})
	}

	allowed, err := ownership.Authorize(database.GetDB(), claims.UserID, merchantID)
	if err != nil {
		log.Error("Failed to check merchant access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list branches"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this merchant"})
	}

	var branches []model.Branch
	result := database.GetDB().
		Where("merchant_id = ?", merchantID).
		Scopes(model.ActiveOnly).
		Order("id").
		Find(&branches)
	if result.Error != nil {
		log.Error("Failed to list branches", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list branches"})
	}

	return c.JSON(http.StatusOK, branches)
}

// GetBranch retrieves an active branch owned (via its merchant) by the requesting user
func GetBranch(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid branch id"})
	}

	var row struct {
		model.Branch
		OwnerID uint
	}
	res := database.GetDB().Table("branches").
		Select("branches.*, merchants.owner_id").
		Joins("JOIN merchants ON merchants.id = branches.merchant_id").
		Where("branches.id = ? AND branches.is_active = ?", id, true).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		log.Error("Failed to load branch", zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load branch"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "branch not found"})
	}
	if row.OwnerID != claims.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this branch"})
	}

	return c.JSON(http.StatusOK, row.Branch)
}

// UpdateBranch applies a partial update to a branch
func UpdateBranch(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("branch", "update")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid branch id"})
	}

	var req struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
		City    *string `json:"city"`
		Phone   *string `json:"phone"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	var count int64
	if err := database.GetDB().Table("branches").
		Joins("JOIN merchants ON merchants.id = branches.merchant_id").
		Where("branches.id = ? AND merchants.owner_id = ?", id, claims.UserID).
		Count(&count).Error; err != nil {
		log.Error("Failed to check branch access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update branch"})
	}
	if count == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this branch"})
	}

	var branch model.Branch
	if result := database.GetDB().First(&branch, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "branch not found"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if result := database.GetDB().Model(&branch).Updates(updates); result.Error != nil {
			log.Error("Failed to update branch", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update branch"})
		}
	}

	return c.JSON(http.StatusOK, branch)
}

// DeleteBranch soft-deletes a branch
func DeleteBranch(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("branch", "delete")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid branch id"})
	}

	var count int64
	if err := database.GetDB().Table("branches").
		Joins("JOIN merchants ON merchants.id = branches.merchant_id").
		Where("branches.id = ? AND merchants.owner_id = ?", id, claims.UserID).
		Count(&count).Error; err != nil {
		log.Error("Failed to check branch access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to deactivate branch"})
	}
	if count == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this branch"})
	}

	var branch model.Branch
	if result := database.GetDB().First(&branch, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "branch not found"})
	}

	if result := database.GetDB().Model(&branch).Update("is_active", false); result.Error != nil {
		log.Error("Failed to deactivate branch", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to deactivate branch"})
	}

	log.Info("Branch deactivated", zap.Uint("id", branch.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "branch deactivated",
		"branch":  branch,
	})
}
