package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable item of a merchant. The price is the
// current list price; orders snapshot it into their items at creation
// time and never read it again.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	MerchantID  uint            `json:"merchant_id" gorm:"index;not null"`
	Name        string          `json:"name" gorm:"type:varchar(150);not null"`
	SKU         string          `json:"sku" gorm:"type:varchar(100)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
