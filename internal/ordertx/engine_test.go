package ordertx

import (
	"testing"
	"time"

	"github.com/EduardoAE22/komerciohub/internal/model"
	"github.com/shopspring/decimal"
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

func seedMerchant(t *testing.T, db *gorm.DB, ownerID uint) model.Merchant {
	merchant := model.Merchant{OwnerID: ownerID, Name: "Cafe Centro", IsActive: true}
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

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	var count int64
	require.NoError(t, db.Model(value).Count(&count).Error)
	return count
}

func TestCreateComputesTotalFromCurrentPrices(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")

	engine := NewEngine(db)
	result, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 3}},
		CreatedBy:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, "30.00", result.Order.TotalAmount.StringFixed(2))
	assert.Equal(t, model.OrderStatusPending, result.Order.Status)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Americano", result.Items[0].ProductName)
	assert.Equal(t, 3, result.Items[0].Quantity)
	assert.Equal(t, "10.00", result.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "30.00", result.Items[0].TotalPrice.StringFixed(2))
}

func TestCreateSnapshotsPriceAtCreation(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")

	engine := NewEngine(db)
	result, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:  1,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&product).Update("price", decimal.RequireFromString("99.00")).Error)

	var item model.OrderItem
	require.NoError(t, db.First(&item, result.Items[0].ID).Error)
	assert.Equal(t, "10.00", item.UnitPrice.StringFixed(2))

	var order model.Order
	require.NoError(t, db.First(&order, result.Order.ID).Error)
	assert.Equal(t, "10.00", order.TotalAmount.StringFixed(2))
}

func TestCreateKeepsDuplicateProductLines(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "5.50")

	engine := NewEngine(db)
	result, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items: []LineInput{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: product.ID, Quantity: 2},
		},
		CreatedBy: 1,
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 1, result.Items[0].Quantity)
	assert.Equal(t, 2, result.Items[1].Quantity)
	assert.Equal(t, "16.50", result.Order.TotalAmount.StringFixed(2))
}

func TestCreateCoercesNonPositiveQuantity(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "4.00")

	engine := NewEngine(db)
	result, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 0}},
		CreatedBy:  1,
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, 1, result.Items[0].Quantity)
	assert.Equal(t, "4.00", result.Order.TotalAmount.StringFixed(2))
}

func TestCreateValidatesInput(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	_, err := engine.Create(CreateInput{Items: []LineInput{{ProductID: 1, Quantity: 1}}, CreatedBy: 1})
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindValidation, engineErr.Kind)
	assert.Equal(t, "missing_merchant", engineErr.Reason)

	_, err = engine.Create(CreateInput{MerchantID: 1, CreatedBy: 1})
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindValidation, engineErr.Kind)
	assert.Equal(t, "missing_items", engineErr.Reason)
}

func TestCreateDeniesForeignMerchant(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")

	engine := NewEngine(db)
	_, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:  2,
	})
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindForbidden, engineErr.Kind)
	assert.Equal(t, int64(0), countRows(t, db, &model.Order{}))
}

func TestCreateRollsBackOnForeignProduct(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	other := model.Merchant{OwnerID: 2, Name: "Otro", IsActive: true}
	require.NoError(t, db.Create(&other).Error)
	mine := seedProduct(t, db, merchant.ID, "Americano", "10.00")
	foreign := seedProduct(t, db, other.ID, "Latte", "12.00")

	engine := NewEngine(db)
	_, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items: []LineInput{
			{ProductID: mine.ID, Quantity: 1},
			{ProductID: foreign.ID, Quantity: 1},
		},
		CreatedBy: 1,
	})
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindValidation, engineErr.Kind)
	assert.Equal(t, "invalid_product", engineErr.Reason)

	assert.Equal(t, int64(0), countRows(t, db, &model.Order{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.OrderItem{}))
}

func TestCreateRollsBackOnInactiveProduct(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)

	engine := NewEngine(db)
	_, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:  1,
	})
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "invalid_product", engineErr.Reason)
	assert.Equal(t, int64(0), countRows(t, db, &model.Order{}))
	assert.Equal(t, int64(0), countRows(t, db, &model.OrderItem{}))
}

func TestCreateRollsBackOnInvalidBranch(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")
	branchID := uint(999)

	engine := NewEngine(db)
	_, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		BranchID:   &branchID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:  1,
	})
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindValidation, engineErr.Kind)
	assert.Equal(t, "invalid_branch", engineErr.Reason)
	assert.Equal(t, int64(0), countRows(t, db, &model.Order{}))
}

func TestCreateRollsBackOnInvalidCustomer(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")
	customerID := uint(999)

	engine := NewEngine(db)
	_, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		CustomerID: &customerID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:  1,
	})
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "invalid_customer", engineErr.Reason)
	assert.Equal(t, int64(0), countRows(t, db, &model.Order{}))
}

func TestPayTransitionsPendingToPaid(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")

	engine := NewEngine(db)
	result, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:  1,
	})
	require.NoError(t, err)

	paid, err := engine.Pay(1, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, paid.Status)
}

func TestPayIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")

	engine := NewEngine(db)
	result, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:  1,
	})
	require.NoError(t, err)

	first, err := engine.Pay(1, result.Order.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second, err := engine.Pay(1, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, second.Status)
	assert.True(t, second.UpdatedAt.Equal(first.UpdatedAt), "second pay must not touch updated_at")
}

func TestPayUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	engine := NewEngine(db)

	_, err := engine.Pay(1, 999)
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindNotFound, engineErr.Kind)
}

func TestPayForeignOrder(t *testing.T) {
	db := setupTestDB(t)
	merchant := seedMerchant(t, db, 1)
	product := seedProduct(t, db, merchant.ID, "Americano", "10.00")

	engine := NewEngine(db)
	result, err := engine.Create(CreateInput{
		MerchantID: merchant.ID,
		Items:      []LineInput{{ProductID: product.ID, Quantity: 1}},
		CreatedBy:  1,
	})
	require.NoError(t, err)

	_, err = engine.Pay(2, result.Order.ID)
	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, KindForbidden, engineErr.Kind)
}
