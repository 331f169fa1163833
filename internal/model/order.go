package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values. The only transition is pending -> paid.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

// Order represents a sale ticket of a merchant. TotalAmount is derived
// from the items at creation time and never recomputed afterwards.
type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	MerchantID  uint            `json:"merchant_id" gorm:"index;not null"`
	BranchID    *uint           `json:"branch_id" gorm:"index"`
	CustomerID  *uint           `json:"customer_id" gorm:"index"`
	CreatedBy   uint            `json:"created_by" gorm:"index;not null"` // User who registered the sale
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status      string          `json:"status" gorm:"type:varchar(20);default:pending"`
	Notes       string          `json:"notes" gorm:"type:text"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem is one line of an order. UnitPrice is copied from the
// product when the order is created; later product price edits never
// touch it.
type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"index;not null"`
	ProductID  uint            `json:"product_id" gorm:"index;not null"`
	Quantity   int             `json:"quantity" gorm:"not null;default:1"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`
}
