package repository

import (
	"context"

	"studio8/internal/domain"
	"studio8/internal/models"

	"gorm.io/gorm"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(ctx context.Context, u *models.StaffUser) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *StaffRepository) GetByID(ctx context.Context, id uint) (*models.StaffUser, error) {
	var u models.StaffUser
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "staff user", id)
	}
	return &u, nil
}

func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var u models.StaffUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, "staff user", email)
	}
	return &u, nil
}

func (r *StaffRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.StaffUser, error) {
	var u models.StaffUser
	if err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&u).Error; err != nil {
		return nil, notFound(err, "staff user", googleID)
	}
	return &u, nil
}

func (r *StaffRepository) Update(ctx context.Context, u *models.StaffUser) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *StaffRepository) List(ctx context.Context) ([]models.StaffUser, error) {
	var list []models.StaffUser
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

// ListActiveByRole returns the active accounts a notice for role reaches: ADMIN notices
// reach admins only, STAFF notices reach every active account.
func (r *StaffRepository) ListActiveByRole(ctx context.Context, role string) ([]models.StaffUser, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if role != domain.RoleStaff {
		q = q.Where("role = ?", role)
	}
	var list []models.StaffUser
	err := q.Order("id ASC").Find(&list).Error
	return list, err
}

func (r *StaffRepository) UpdateFCMToken(ctx context.Context, id uint, token string) error {
	return r.db.WithContext(ctx).Model(&models.StaffUser{}).Where("id = ?", id).Update("fcm_token", token).Error
}

func (r *StaffRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.StaffUser{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "staff user", id)
	}
	return nil
}
