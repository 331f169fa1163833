package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Auth error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_request", "user_not_found", "invalid_password", etc.
	)

	// Order counters
	OrderCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_orders_created_total",
			Help: "Total number of orders created",
		},
	)

	OrderPaidCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backoffice_orders_paid_total",
			Help: "Total number of orders marked as paid",
		},
	)

	// Order transaction rollback counter
	OrderRollbackCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_order_rollbacks_total",
			Help: "Total number of rolled-back order transactions",
		},
		[]string{"reason"}, // reason can be "invalid_branch", "invalid_customer", "invalid_product", "db_error"
	)

	// Catalog operation counter
	CatalogOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_catalog_operations_total",
			Help: "Total number of catalog operations by entity and operation",
		},
		[]string{"entity", "operation"},
	)

	// Report counter
	ReportCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_reports_total",
			Help: "Total number of report queries by report type",
		},
		[]string{"report"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backoffice_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backoffice_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "transaction"
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(OrderCreatedCounter)
	prometheus.MustRegister(OrderPaidCounter)
	prometheus.MustRegister(OrderRollbackCounter)
	prometheus.MustRegister(CatalogOperationCounter)
	prometheus.MustRegister(ReportCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordCatalogOperation records a catalog operation
func RecordCatalogOperation(entity, operation string) {
	CatalogOperationCounter.With(prometheus.Labels{"entity": entity, "operation": operation}).Inc()
}

// RecordOrderRollback records a rolled-back order transaction by reason
func RecordOrderRollback(reason string) {
	OrderRollbackCounter.With(prometheus.Labels{"reason": reason}).Inc()
}

// RecordReport records a report query by report type
func RecordReport(report string) {
	ReportCounter.With(prometheus.Labels{"report": report}).Inc()
}
