package model

import (
	"time"
)

// User represents an account that can own merchants
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"type:varchar(150);not null"`
	Email        string    `json:"email" gorm:"type:varchar(150);uniqueIndex;not null"`
	Role         string    `json:"role" gorm:"type:varchar(30);default:owner"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
