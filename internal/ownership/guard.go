// Package ownership decides whether a user may act on a merchant's
// resources. Every merchant-scoped handler runs through Authorize before
// reading or writing branch, product, customer or order data.
package ownership

import (
	"github.com/EduardoAE22/komerciohub/internal/model"
	"gorm.io/gorm"
)

// Authorize reports whether the merchant exists, is active and is owned
// by the given user. A false result carries no detail on purpose: the
// caller maps it to 403 regardless of whether the merchant is missing,
// inactive or owned by someone else.
func Authorize(db *gorm.DB, userID, merchantID uint) (bool, error) {
	var count int64
	err := db.Model(&model.Merchant{}).
		Where("id = ? AND owner_id = ?", merchantID, userID).
		Scopes(model.ActiveOnly).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
