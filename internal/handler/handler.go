package handler

import (
	"strconv"

	"github.com/EduardoAE22/komerciohub/pkg/jwtutil"
	"github.com/labstack/echo/v4"
)

// currentUser returns the authenticated claims stored by the auth middleware.
func currentUser(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	return claims, ok
}

// idParam parses the :id path parameter.
func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// merchantIDQuery parses the merchant_id query parameter. Zero means absent.
func merchantIDQuery(c echo.Context) uint {
	id, err := strconv.ParseUint(c.QueryParam("merchant_id"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
