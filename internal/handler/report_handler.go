package handler

import (
	"net/http"
	"time"

	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/logger"
	"github.com/EduardoAE22/komerciohub/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const reportDateLayout = "2006-01-02"

type merchantSalesRow struct {
	MerchantID   uint
	MerchantName string
	TotalOrders  int64
	TotalSales   decimal.Decimal
}

type dailySalesRow struct {
	SaleDate    string
	TotalOrders int64
	TotalSales  decimal.Decimal
}

type topProductRow struct {
	ProductID     uint
	ProductName   string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
}

// DailySales reports paid-order count and sum for one merchant on one date.
// Defaults to today when no date is given.
func DailySales(c echo.Context) error {
	log := logger.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	merchantID := merchantIDQuery(c)
	if merchantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "merchant_id is required in query"})
	}

	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format(reportDateLayout)
	}

	var row merchantSalesRow
	res := database.GetDB().Raw(`
		SELECT
			m.id AS merchant_id,
			m.name AS merchant_name,
			COALESCE(COUNT(o.id), 0) AS total_orders,
			COALESCE(SUM(o.total_amount), 0) AS total_sales
		FROM merchants m
		LEFT JOIN orders o
			ON o.merchant_id = m.id
			AND o.status = 'paid'
			AND o.is_active = ?
			AND date(o.created_at) = ?
		WHERE m.id = ?
			AND m.owner_id = ?
			AND m.is_active = ?
		GROUP BY m.id, m.name`,
		true, date, merchantID, claims.UserID, true,
	).Scan(&row)
	if res.Error != nil {
		log.Error("Failed to build daily sales report", zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to build daily sales report"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "merchant not found or does not belong to user"})
	}

	prometheus.RecordReport("daily_sales")

	return c.JSON(http.StatusOK, echo.Map{
		"merchant_id":   row.MerchantID,
		"merchant_name": row.MerchantName,
		"date":          date,
		"total_orders":  row.TotalOrders,
		"total_sales":   row.TotalSales.StringFixed(2),
	})
}

// SalesRange reports per-day paid sales for a merchant between two dates.
func SalesRange(c echo.Context) error {
	log := logger.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	merchantID := merchantIDQuery(c)
	if merchantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "merchant_id is required in query"})
	}

	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "from and to are required in query (YYYY-MM-DD)"})
	}

	var rows []dailySalesRow
	if err := database.GetDB().Raw(`
		SELECT
			CAST(date(o.created_at) AS TEXT) AS sale_date,
			COUNT(o.id) AS total_orders,
			COALESCE(SUM(o.total_amount), 0) AS total_sales
		FROM orders o
		JOIN merchants m ON m.id = o.merchant_id
		WHERE m.id = ?
			AND m.owner_id = ?
			AND m.is_active = ?
			AND o.is_active = ?
			AND o.status = 'paid'
			AND date(o.created_at) BETWEEN ? AND ?
		GROUP BY sale_date
		ORDER BY sale_date`,
		merchantID, claims.UserID, true, true, from, to,
	).Scan(&rows).Error; err != nil {
		log.Error("Failed to build sales range report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to build sales range report"})
	}

	prometheus.RecordReport("sales_range")

	list := make([]echo.Map, len(rows))
	for i, row := range rows {
		list[i] = echo.Map{
			"sale_date":    row.SaleDate,
			"total_orders": row.TotalOrders,
			"total_sales":  row.TotalSales.StringFixed(2),
		}
	}

	return c.JSON(http.StatusOK, list)
}

// TopProducts ranks a merchant's products by paid quantity in a date range.
func TopProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	merchantID := merchantIDQuery(c)
	if merchantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "merchant_id is required in query"})
	}

	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" || to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "from and to are required in query (YYYY-MM-DD)"})
	}

	var rows []topProductRow
	if err := database.GetDB().Raw(`
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			SUM(oi.quantity) AS total_quantity,
			COALESCE(SUM(oi.total_price), 0) AS total_revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN merchants m ON m.id = o.merchant_id
		JOIN products p ON p.id = oi.product_id
		WHERE m.id = ?
			AND m.owner_id = ?
			AND m.is_active = ?
			AND o.is_active = ?
			AND o.status = 'paid'
			AND date(o.created_at) BETWEEN ? AND ?
		GROUP BY p.id, p.name
		ORDER BY total_quantity DESC, total_revenue DESC`,
		merchantID, claims.UserID, true, true, from, to,
	).Scan(&rows).Error; err != nil {
		log.Error("Failed to build top products report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to build top products report"})
	}

	prometheus.RecordReport("top_products")

	return c.JSON(http.StatusOK, topProductsJSON(rows))
}

// OwnerDailySummary reports one date for the token owner's first active merchant.
func OwnerDailySummary(c echo.Context) error {
	log := logger.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format(reportDateLayout)
	}

	var row merchantSalesRow
	res := database.GetDB().Raw(`
		SELECT
			m.id AS merchant_id,
			m.name AS merchant_name,
			COALESCE(COUNT(o.id), 0) AS total_orders,
			COALESCE(SUM(o.total_amount), 0) AS total_sales
		FROM merchants m
		LEFT JOIN orders o
			ON o.merchant_id = m.id
			AND o.status = 'paid'
			AND o.is_active = ?
			AND date(o.created_at) = ?
		WHERE m.owner_id = ?
			AND m.is_active = ?
		GROUP BY m.id, m.name
		ORDER BY m.id
		LIMIT 1`,
		true, date, claims.UserID, true,
	).Scan(&row)
	if res.Error != nil {
		log.Error("Failed to build owner daily summary", zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to build owner daily summary"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "no active merchant found for this owner"})
	}

	prometheus.RecordReport("owner_daily_summary")

	return c.JSON(http.StatusOK, echo.Map{
		"merchant_id":   row.MerchantID,
		"merchant_name": row.MerchantName,
		"date":          date,
		"total_orders":  row.TotalOrders,
		"total_sales":   row.TotalSales.StringFixed(2),
	})
}

// OwnerTopProducts ranks products across all the owner's merchants for one date.
func OwnerTopProducts(c echo.Context) error {
	log := logger.FromEcho(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	claims, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authentication required"})
	}

	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format(reportDateLayout)
	}

	var rows []topProductRow
	if err := database.GetDB().Raw(`
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			SUM(oi.quantity) AS total_quantity,
			COALESCE(SUM(oi.total_price), 0) AS total_revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN merchants m ON m.id = o.merchant_id
		JOIN products p ON p.id = oi.product_id
		WHERE m.owner_id = ?
			AND m.is_active = ?
			AND o.is_active = ?
			AND o.status = 'paid'
			AND date(o.created_at) = ?
		GROUP BY p.id, p.name
		ORDER BY total_quantity DESC, total_revenue DESC`,
		claims.UserID, true, true, date,
	).Scan(&rows).Error; err != nil {
		log.Error("Failed to build owner top products report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to build owner top products report"})
	}

	prometheus.RecordReport("owner_top_products")

	return c.JSON(http.StatusOK, topProductsJSON(rows))
}

func topProductsJSON(rows []topProductRow) []echo.Map {
	list := make([]echo.Map, len(rows))
	for i, row := range rows {
		list[i] = echo.Map{
			"product_id":     row.ProductID,
			"product_name":   row.ProductName,
			"total_quantity": row.TotalQuantity,
			"total_revenue":  row.TotalRevenue.StringFixed(2),
		}
	}
	return list
}
