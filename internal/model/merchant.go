package model

import (
	"time"
)

// Merchant represents a business owned by exactly one user. Every
// branch, product, customer and order hangs off a merchant, and all
// authorization reduces to ownership of the merchant.
type Merchant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"index;not null"` // Reference to the User who owns this merchant
	Name        string    `json:"name" gorm:"type:varchar(150);not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
