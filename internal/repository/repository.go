package repository

import (
	"errors"
	"fmt"

	"studio8/internal/booking"

	"gorm.io/gorm"
)

// notFound maps gorm.ErrRecordNotFound to booking.ErrNotFound so callers never import gorm.
func notFound(err error, entity string, key interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return booking.NotFound(entity, fmt.Sprint(key))
	}
	return err
}

// paginate applies 1-based page/limit paging. limit defaults to 20 and is capped at 100.
func paginate(q *gorm.DB, page, limit int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	return q.Limit(limit).Offset((page - 1) * limit)
}
