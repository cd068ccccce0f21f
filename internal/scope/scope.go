package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForUser returns a GORM scope that filters rows by their owning user.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// Active filters habits down to the ones not soft-disabled.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
