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

// CreateCustomer registers a customer under a merchant of the requesting user
func CreateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("customer", "create")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	var req struct {
		MerchantID uint   `json:"merchant_id"`
		FullName   string `json:"full_name"`
		Phone      string `json:"phone"`
		Email      string `json:"email"`
		Notes      string `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	if req.MerchantID == 0 || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "merchant_id and full_name are required"})
	}

	allowed, err := ownership.Authorize(database.GetDB(), claims.UserID, req.MerchantID)
	if err != nil {
		log.Error("Failed to check merchant access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create customer"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this merchant"})
	}

	customer := model.Customer{
		MerchantID: req.MerchantID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Email:      req.Email,
		Notes:      req.Notes,
		IsActive:   true,
	}

	if result := database.GetDB().Create(&customer); result.Error != nil {
		log.Error("Failed to create customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create customer"})
	}

	log.Info("Customer created", zap.Uint("id", customer.ID), zap.Uint("merchant_id", customer.MerchantID))

	return c.JSON(http.StatusCreated, customer)
}

// ListCustomers lists the active customers of a merchant
func ListCustomers(c echo.Context) error {
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
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list customers"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this merchant"})
	}

	var customers []model.Customer
	result := database.GetDB().
		Where("merchant_id = ?", merchantID).
		Scopes(model.ActiveOnly).
		Order("id").
		Find(&customers)
	if result.Error != nil {
		log.Error("Failed to list customers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list customers"})
	}

	return c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves an active customer owned (via its merchant) by the requesting user
func GetCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid customer id"})
	}

	var row struct {
		model.Customer
		OwnerID uint
	}
	res := database.GetDB().Table("customers").
		Select("customers.*, merchants.owner_id").
		Joins("JOIN merchants ON merchants.id = customers.merchant_id").
		Where("customers.id = ? AND customers.is_active = ?", id, true).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		log.Error("Failed to load customer", zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load customer"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "customer not found"})
	}
	if row.OwnerID != claims.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this customer"})
	}

	return c.JSON(http.StatusOK, row.Customer)
}

// UpdateCustomer applies a partial update to a customer
func UpdateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("customer", "update")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid customer id"})
	}

	var req struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		Email    *string `json:"email"`
		Notes    *string `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	var count int64
	if err := database.GetDB().Table("customers").
		Joins("JOIN merchants ON merchants.id = customers.merchant_id").
		Where("customers.id = ? AND merchants.owner_id = ?", id, claims.UserID).
		Count(&count).Error; err != nil {
		log.Error("Failed to check customer access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update customer"})
	}
	if count == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this customer"})
	}

	var customer model.Customer
	if result := database.GetDB().First(&customer, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "customer not found"})
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if result := database.GetDB().Model(&customer).Updates(updates); result.Error != nil {
			log.Error("Failed to update customer", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update customer"})
		}
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft-deletes a customer
func DeleteCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("customer", "delete")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid customer id"})
	}

	var count int64
	if err := database.GetDB().Table("customers").
		Joins("JOIN merchants ON merchants.id = customers.merchant_id").
		Where("customers.id = ? AND merchants.owner_id = ?", id, claims.UserID).
		Count(&count).Error; err != nil {
		log.Error("Failed to check customer access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to deactivate customer"})
	}
	if count == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this customer"})
	}

	var customer model.Customer
	if result := database.GetDB().First(&customer, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "customer not found"})
	}

	if result := database.GetDB().Model(&customer).Update("is_active", false); result.Error != nil {
		log.Error("Failed to deactivate customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to deactivate customer"})
	}

	log.Info("Customer deactivated", zap.Uint("id", customer.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "customer deactivated",
		"customer": customer,
	})
}
