package repository

import (
	"context"

	"studio8/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// ListByReferrer returns the referrals a client made, with the referred client preloaded.
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID uint) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.WithContext(ctx).Where("referrer_client_id = ?", referrerID).
		Preload("Referred").Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *ReferralRepository) List(ctx context.Context, page, limit int) ([]models.Referral, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Referral{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Referral
	err := paginate(r.db.WithContext(ctx).Preload("Referrer").Preload("Referred").Order("created_at DESC"), page, limit).
		Find(&list).Error
	return list, total, err
}
