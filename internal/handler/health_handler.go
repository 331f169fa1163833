package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health returns a simple health check response
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"ok":        true,
		"service":   "komerciohub",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
