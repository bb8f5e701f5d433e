package repository

import (
	"context"
	"time"

	"studio8/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, list []models.Notification) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("StaffUser").Create(&list).Error
}

func (r *NotificationRepository) ListByStaffID(ctx context.Context, staffID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.WithContext(ctx).Where("staff_user_id = ?", staffID).
		Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, staffID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("staff_user_id = ? AND read_at IS NULL", staffID).Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, staffID uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND staff_user_id = ?", id, staffID).Update("read_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "notification", id)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, staffID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("staff_user_id = ? AND read_at IS NULL", staffID).Update("read_at", at).Error
}
