package model

import (
	"time"
)

// Branch represents a physical location of a merchant
type Branch struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MerchantID uint      `json:"merchant_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"type:varchar(150);not null"`
	Address    string    `json:"address" gorm:"type:varchar(255)"`
	City       string    `json:"city" gorm:"type:varchar(100)"`
	Phone      string    `json:"phone" gorm:"type:varchar(30)"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
