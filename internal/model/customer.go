package model

import (
	"time"
)

// Customer represents a buyer registered under a merchant
type Customer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MerchantID uint      `json:"merchant_id" gorm:"index;not null"`
	FullName   string    `json:"full_name" gorm:"type:varchar(150);not null"`
	Phone      string    `json:"phone" gorm:"type:varchar(30)"`
	Email      string    `json:"email" gorm:"type:varchar(150)"`
	Notes      string    `json:"notes" gorm:"type:text"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
