package database

import (
	"gorm.io/gorm"
)

// Paginate applies offset/limit pagination to a GORM query. Non-positive
// page or limit values leave the query unpaginated.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 || limit < 1 {
			return db
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
