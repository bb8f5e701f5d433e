package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"studio8/internal/booking"
	"studio8/internal/domain"
	"studio8/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	var s models.SystemSetting
	if err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&s).Error; err != nil {
		return "", notFound(err, "setting", key)
	}
	return s.Value, nil
}

func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.SystemSetting{Key: key, Value: value}).Error
}

// LoyaltySettings reads the loyalty document. A missing document yields the defaults;
// a malformed one is a configuration error.
func (r *SettingRepository) LoyaltySettings(ctx context.Context) (booking.LoyaltySettings, error) {
	raw, err := r.Get(ctx, domain.SettingLoyalty)
	if errors.Is(err, booking.ErrNotFound) {
		return booking.DefaultLoyaltySettings(), nil
	}
	if err != nil {
		return booking.LoyaltySettings{}, err
	}
	var s booking.LoyaltySettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return booking.LoyaltySettings{}, fmt.Errorf("decode %s: %v: %w", domain.SettingLoyalty, err, booking.ErrConfiguration)
	}
	if err := s.Validate(); err != nil {
		return booking.LoyaltySettings{}, fmt.Errorf("invalid %s: %v: %w", domain.SettingLoyalty, err, booking.ErrConfiguration)
	}
	return s, nil
}

func (r *SettingRepository) SaveLoyaltySettings(ctx context.Context, s booking.LoyaltySettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Set(ctx, domain.SettingLoyalty, string(b))
}
