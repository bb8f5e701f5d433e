package repository

import (
	"context"

	"studio8/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List returns the activity trail, newest first, optionally for one resource.
func (r *AuditLogRepository) List(ctx context.Context, resource, resourceID string, page, limit int) ([]models.AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if resource != "" {
		q = q.Where("resource = ?", resource)
	}
	if resourceID != "" {
		q = q.Where("resource_id = ?", resourceID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.AuditLog
	err := paginate(q.Order("created_at DESC").Order("id DESC"), page, limit).Find(&list).Error
	return list, total, err
}
