package repository

import (
	"context"
	"time"

	"studio8/internal/domain"
	"studio8/internal/models"

	"gorm.io/gorm"
)

// BookingFilter narrows the admin booking list. Zero values mean "any".
type BookingFilter struct {
	BookingStatus string
	PaymentStatus string
	From          *time.Time
	To            *time.Time
	Search        string
	Page          int
	Limit         int
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, "booking", id)
	}
	return &b, nil
}

func (r *BookingRepository) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&b).Error; err != nil {
		return nil, notFound(err, "booking", code)
	}
	return &b, nil
}

// List returns bookings ordered by session date, newest first.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]models.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if f.BookingStatus != "" {
		q = q.Where("booking_status = ?", f.BookingStatus)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.From != nil {
		q = q.Where("booking_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("booking_date < ?", *f.To)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("code LIKE ? OR client_name LIKE ? OR client_email LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Booking
	err := paginate(q.Order("booking_date DESC").Order("id DESC"), f.Page, f.Limit).Find(&list).Error
	return list, total, err
}

// ListByClientEmail returns a client's booking history, newest first.
func (r *BookingRepository) ListByClientEmail(ctx context.Context, email string, limit int) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.WithContext(ctx).Where("client_email = ?", email).
		Order("booking_date DESC").Limit(limit).Find(&list).Error
	return list, err
}

// ListOnDate returns the non-cancelled sessions scheduled on the calendar day of day.
func (r *BookingRepository) ListOnDate(ctx context.Context, day time.Time) ([]models.Booking, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var list []models.Booking
	err := r.db.WithContext(ctx).
		Where("booking_date >= ? AND booking_date < ?", start, start.AddDate(0, 0, 1)).
		Where("booking_status <> ?", domain.BookingCancelled).
		Order("booking_date ASC").Find(&list).Error
	return list, err
}
