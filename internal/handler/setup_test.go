package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/EduardoAE22/komerciohub/pkg/config"
	"github.com/EduardoAE22/komerciohub/pkg/database"
	"github.com/EduardoAE22/komerciohub/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTest points the shared database handle at a fresh in-memory
// sqlite and returns it. Handlers read the handle through
// database.GetDB, so swapping the package variable is enough.
func setupTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	database.DB = db
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	require.NoError(t, err)
	user := model.User{
		FullName:     "Test Owner",
		Email:        email,
		Role:         "owner",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedMerchant(t *testing.T, db *gorm.DB, ownerID uint, name string) model.Merchant {
	merchant := model.Merchant{OwnerID: ownerID, Name: name, IsActive: true}
	require.NoError(t, db.Create(&merchant).Error)
	return merchant
}

func seedProduct(t *testing.T, db *gorm.DB, merchantID uint, name, price string) model.Product {
	product := model.Product{
		MerchantID: merchantID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		IsActive:   true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// newRequest builds an echo context for a handler call. Claims simulate
// the auth middleware having already validated a token.
func newRequest(t *testing.T, method, target string, body interface{}, claims *jwtutil.UserClaims) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

func ownerClaims(user model.User) *jwtutil.UserClaims {
	return &jwtutil.UserClaims{Email: user.Email, UserID: user.ID, Role: user.Role}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	return list
}
