package handler

import (
	"net/http"
	"strconv"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/internal/ordertx"
	"github.com/EduardoAE22/komerciohub/internal/ownership"
	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/logger"
	"github.com/EduardoAE22/komerciohub/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// orderJSON shapes an order for responses; monetary amounts are rendered
// with two fraction digits.
func orderJSON(o model.Order) echo.Map {
	return echo.Map{
		"id":           o.ID,
		"merchant_id":  o.MerchantID,
		"branch_id":    o.BranchID,
		"customer_id":  o.CustomerID,
		"created_by":   o.CreatedBy,
		"total_amount": o.TotalAmount.StringFixed(2),
		"status":       o.Status,
		"notes":        o.Notes,
		"is_active":    o.IsActive,
		"created_at":   o.CreatedAt,
		"updated_at":   o.UpdatedAt,
	}
}

func orderItemJSON(i ordertx.CreatedItem) echo.Map {
	return echo.Map{
		"id":           i.ID,
		"product_id":   i.ProductID,
		"product_name": i.ProductName,
		"quantity":     i.Quantity,
		"unit_price":   i.UnitPrice.StringFixed(2),
		"total_price":  i.TotalPrice.StringFixed(2),
		"created_at":   i.CreatedAt,
	}
}

// engineErrorResponse maps an order engine failure to an HTTP response.
func engineErrorResponse(c echo.Context, log *zap.Logger, err error, generic string) error {
	if engineErr, ok := err.(*ordertx.Error); ok {
		switch engineErr.Kind {
		case ordertx.KindValidation:
			prometheus.RecordOrderRollback(engineErr.Reason)
			return c.JSON(http.StatusBadRequest, echo.Map{"message": engineErr.Message})
		case ordertx.KindForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": engineErr.Message})
		case ordertx.KindNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": engineErr.Message})
		default:
			prometheus.RecordOrderRollback(engineErr.Reason)
			log.Error(generic, zap.Error(engineErr))
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": generic})
		}
	}
	log.Error(generic, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": generic})
}

// CreateOrder creates an order with its items in one atomic transaction
func CreateOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	var req struct {
		MerchantID uint                `json:"merchant_id"`
		BranchID   *uint               `json:"branch_id"`
		CustomerID *uint               `json:"customer_id"`
		Items      []ordertx.LineInput `json:"items"`
		Notes      string              `json:"notes"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	engine := ordertx.NewEngine(database.GetDB())
	result, err := engine.Create(ordertx.CreateInput{
		MerchantID: req.MerchantID,
		BranchID:   req.BranchID,
		CustomerID: req.CustomerID,
		Items:      req.Items,
		Notes:      req.Notes,
		CreatedBy:  claims.UserID,
	})
	if err != nil {
		return engineErrorResponse(c, log, err, "failed to create order")
	}

	prometheus.OrderCreatedCounter.Inc()
	log.Info("Order created",
		zap.Uint("id", result.Order.ID),
		zap.Uint("merchant_id", result.Order.MerchantID),
		zap.String("total_amount", result.Order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(result.Items)))

	items := make([]echo.Map, len(result.Items))
	for i, item := range result.Items {
		items[i] = orderItemJSON(item)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "order created",
		"order":   orderJSON(result.Order),
		"items":   items,
	})
}

// ListOrders lists the orders of a merchant, optionally filtered by branch
func ListOrders(c echo.Context) error {
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
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list orders"})
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this merchant"})
	}

	query := database.GetDB().Where("merchant_id = ?", merchantID)
	if branchID, err := strconv.ParseUint(c.QueryParam("branch_id"), 10, 32); err == nil {
		query = query.Where("branch_id = ?", uint(branchID))
	}

	var orders []model.Order
	if result := query.Order("id DESC").Find(&orders); result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list orders"})
	}

	list := make([]echo.Map, len(orders))
	for i, o := range orders {
		list[i] = orderJSON(o)
	}

	return c.JSON(http.StatusOK, list)
}

// GetOrder retrieves one order with its items
func GetOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order id"})
	}

	var row struct {
		model.Order
		OwnerID uint
	}
	res := database.GetDB().Table("orders").
		Select("orders.*, merchants.owner_id").
		Joins("JOIN merchants ON merchants.id = orders.merchant_id").
		Where("orders.id = ?", id).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		log.Error("Failed to load order", zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load order"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
	}
	if row.OwnerID != claims.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "you do not have access to this order"})
	}

	var items []ordertx.CreatedItem
	if err := database.GetDB().Table("order_items").
		Select("order_items.id, order_items.product_id, products.name AS product_name, order_items.quantity, order_items.unit_price, order_items.total_price, order_items.created_at").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", id).
		Order("order_items.id").
		Scan(&items).Error; err != nil {
		log.Error("Failed to load order items", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load order"})
	}

	itemList := make([]echo.Map, len(items))
	for i, item := range items {
		itemList[i] = orderItemJSON(item)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"order": orderJSON(row.Order),
		"items": itemList,
	})
}

// PayOrder marks an order as paid. Paying twice is a no-op success.
func PayOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	id, err := idParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order id"})
	}

	engine := ordertx.NewEngine(database.GetDB())
	order, err := engine.Pay(claims.UserID, id)
	if err != nil {
		return engineErrorResponse(c, log, err, "failed to mark order as paid")
	}

	prometheus.OrderPaidCounter.Inc()
	log.Info("Order paid", zap.Uint("id", order.ID), zap.Uint("merchant_id", order.MerchantID))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "order marked as paid",
		"order":   orderJSON(*order),
	})
}
