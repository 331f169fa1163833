package model

import (
	"gorm.io/gorm"
)

// ActiveOnly restricts a query to rows that have not been soft-deleted.
// Soft delete (is_active = false) is the only delete path in this
// system; rows are never physically removed.
func ActiveOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// AllModels lists every model for migrations.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Merchant{},
		&Branch{},
		&Product{},
		&Customer{},
		&Order{},
		&OrderItem{},
	}
}
