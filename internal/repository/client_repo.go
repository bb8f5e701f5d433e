package repository

import (
	"context"

	"studio8/internal/models"

	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// GetByEmail expects a normalized (lower-cased, trimmed) email.
func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, notFound(err, "client", email)
	}
	return &c, nil
}

func (r *ClientRepository) GetByReferralCode(ctx context.Context, code string) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&c).Error; err != nil {
		return nil, notFound(err, "referral code", code)
	}
	return &c, nil
}

// List returns clients matching search (name, email or phone), most loyal first.
func (r *ClientRepository) List(ctx context.Context, search, tier string, page, limit int) ([]models.Client, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Client{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	if tier != "" {
		q = q.Where("loyalty_tier = ?", tier)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Client
	err := paginate(q.Order("total_bookings DESC").Order("id ASC"), page, limit).Find(&list).Error
	return list, total, err
}

// AdjustPoints applies a manual points correction; the balance never goes below zero.
func (r *ClientRepository) AdjustPoints(ctx context.Context, email string, delta int64) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("email = ?", email).First(&c).Error; err != nil {
			return notFound(err, "client", email)
		}
		c.LoyaltyPoints += delta
		if c.LoyaltyPoints < 0 {
			c.LoyaltyPoints = 0
		}
		return tx.Model(&c).Update("loyalty_points", c.LoyaltyPoints).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
