package ownership

import (
	"testing"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func TestAuthorizeOwnedActiveMerchant(t *testing.T) {
	db := setupTestDB(t)
	merchant := model.Merchant{OwnerID: 1, Name: "Cafe Centro", IsActive: true}
	require.NoError(t, db.Create(&merchant).Error)

	allowed, err := Authorize(db, 1, merchant.ID)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestAuthorizeDeniesForeignOwner(t *testing.T) {
	db := setupTestDB(t)
	merchant := model.Merchant{OwnerID: 1, Name: "Cafe Centro", IsActive: true}
	require.NoError(t, db.Create(&merchant).Error)

	allowed, err := Authorize(db, 2, merchant.ID)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAuthorizeDeniesInactiveMerchant(t *testing.T) {
	db := setupTestDB(t)
	merchant := model.Merchant{OwnerID: 1, Name: "Cafe Centro", IsActive: true}
	require.NoError(t, db.Create(&merchant).Error)
	require.NoError(t, db.Model(&merchant).Update("is_active", false).Error)

	allowed, err := Authorize(db, 1, merchant.ID)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestAuthorizeDeniesMissingMerchant(t *testing.T) {
	db := setupTestDB(t)

	allowed, err := Authorize(db, 1, 999)
	require.NoError(t, err)
	assert.False(t, allowed)
}
