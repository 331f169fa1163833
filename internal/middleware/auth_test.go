package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EduardoAE22/komerciohub/pkg/config"
	"github.com/EduardoAE22/komerciohub/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodGet, "/api/merchants", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	handler := JWTAuthMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	token, err := jwtutil.GenerateToken("ana@example.com", 7, "owner")
	require.NoError(t, err)

	rec, c := callProtected(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)

	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "owner", claims.Role)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	rec, _ := callProtected(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsMalformedHeader(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	rec, _ := callProtected(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsForgedToken(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "other-key", ExpirationHours: 1})
	token, err := jwtutil.GenerateToken("ana@example.com", 7, "owner")
	require.NoError(t, err)

	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
