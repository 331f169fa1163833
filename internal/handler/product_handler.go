package handler

import (
	"net/http"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/internal/ownership"
	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/logger"
	"github.com/EduardoAE22/komerciohub/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProduct creates a product under a merchant of the requesting user
func CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("product", "create")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	var req struct {
		MerchantID  uint             `json:"merchant_id"`
		Name        string           `json:"name"`
		SKU         string           `json:"sku"`
		Price       *decimal.Decimal `json:"price"`
		Description string           `json:"description"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	if req.MerchantID == 0 || req.Name == "" || req.Price == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "merchant_id, name and price are required"})
	}

	allowed, err := ownership.Authorize(database.GetDB(), claims.UserID, req.MerchantID)
	if err != nil {
		log.Error("Failed to check merchant access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create product"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this merchant"})
	}

	product := model.Product{
		MerchantID:  req.MerchantID,
		Name:        req.Name,
		SKU:         req.SKU,
		Price:       *req.Price,
		Description: req.Description,
		IsActive:    true,
	}

	if result := database.GetDB().Create(&product); result.Error != nil {
		log.Error("Failed to create product", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create product"})
	}

	log.Info("Product created", zap.Uint("id", product.ID), zap.Uint("merchant_id", product.MerchantID))

	return c.JSON(http.StatusCreated, product)
}

// ListProducts lists the active products of a merchant
func ListProducts(c echo.Context) error {
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
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list products"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this merchant"})
	}

	var products []model.Product
	result := database.GetDB().
		Where("merchant_id = ?", merchantID).
		Scopes(model.ActiveOnly).
		Order("id").
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list products"})
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct retrieves an active product owned (via its merchant) by the requesting user
func GetProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	var row struct {
		model.Product
		OwnerID uint
	}
	res := database.GetDB().Table("products").
		Select("products.*, merchants.owner_id").
		Joins("JOIN merchants ON merchants.id = products.merchant_id").
		Where("products.id = ? AND products.is_active = ?", id, true).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		log.Error("Failed to load product", zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load product"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
	}
	if row.OwnerID != claims.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this product"})
	}

	return c.JSON(http.StatusOK, row.Product)
}

// UpdateProduct applies a partial update to a product. The price change
// only affects future orders; existing order items keep their snapshot.
func UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("product", "update")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	var req struct {
		Name        *string          `json:"name"`
		SKU         *string          `json:"sku"`
		Price       *decimal.Decimal `json:"price"`
		Description *string          `json:"description"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	var count int64
	if err := database.GetDB().Table("products").
		Joins("JOIN merchants ON merchants.id = products.merchant_id").
		Where("products.id = ? AND merchants.owner_id = ?", id, claims.UserID).
		Count(&count).Error; err != nil {
		log.Error("Failed to check product access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update product"})
	}
	if count == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this product"})
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if result := database.GetDB().Model(&product).Updates(updates); result.Error != nil {
			log.Error("Failed to update product", zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update product"})
		}
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct soft-deletes a product
func DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCatalogOperation("product", "delete")

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid product id"})
	}

	var count int64
	if err := database.GetDB().Table("products").
		Joins("JOIN merchants ON merchants.id = products.merchant_id").
		Where("products.id = ? AND merchants.owner_id = ?", id, claims.UserID).
		Count(&count).Error; err != nil {
		log.Error("Failed to check product access", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to deactivate product"})
	}
	if count == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this product"})
	}

	var product model.Product
	if result := database.GetDB().First(&product, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
	}

	if result := database.GetDB().Model(&product).Update("is_active", false); result.Error != nil {
		log.Error("Failed to deactivate product", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to deactivate product"})
	}

	log.Info("Product deactivated", zap.Uint("id", product.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "product deactivated",
		"product": product,
	})
}
