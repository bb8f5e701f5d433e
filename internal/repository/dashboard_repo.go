package repository

import (
	"context"
	"time"

	"studio8/internal/domain"
	"studio8/internal/models"

	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalBookings      int64            `json:"total_bookings"`
	ByStatus           map[string]int64 `json:"by_status"`
	PendingPayments    int64            `json:"pending_payments"`
	TotalClients       int64            `json:"total_clients"`
	TotalReferrals     int64            `json:"total_referrals"`
	TotalRevenue       int64            `json:"total_revenue"`
	OutstandingBalance int64            `json:"outstanding_balance"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Stats(ctx context.Context) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	s := DashboardStats{ByStatus: make(map[string]int64)}

	var rows []struct {
		BookingStatus string
		Count         int64
	}
	if err := db.Model(&models.Booking{}).Select("booking_status, COUNT(*) AS count").
		Group("booking_status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		s.ByStatus[row.BookingStatus] = row.Count
		s.TotalBookings += row.Count
	}
	if err := db.Model(&models.Booking{}).Where("payment_status = ?", domain.PaymentPending).
		Where("booking_status <> ?", domain.BookingCancelled).Count(&s.PendingPayments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Client{}).Count(&s.TotalClients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Referral{}).Count(&s.TotalReferrals).Error; err != nil {
		return nil, err
	}

	var sum struct{ Total int64 }
	if err := db.Model(&models.FinancialTransaction{}).Select("COALESCE(SUM(amount), 0) AS total").
		Where("kind = ?", domain.TxKindIncome).Scan(&sum).Error; err != nil {
		return nil, err
	}
	s.TotalRevenue = sum.Total

	sum.Total = 0
	if err := db.Model(&models.Booking{}).Select("COALESCE(SUM(remaining_balance), 0) AS total").
		Where("booking_status IN ?", []string{domain.BookingConfirmed, domain.BookingInProgress, domain.BookingRescheduleRequested}).
		Scan(&sum).Error; err != nil {
		return nil, err
	}
	s.OutstandingBalance = sum.Total
	return &s, nil
}

// BookingsByDay returns daily booking submissions for the last days days.
func (r *DashboardRepository) BookingsByDay(ctx context.Context, days int) ([]TimeSeriesPoint, error) {
	since := time.Now().AddDate(0, 0, -days)
	var points []TimeSeriesPoint
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select("DATE(created_at) AS date, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").Order("date ASC").
		Scan(&points).Error
	return points, err
}
