package repository

import (
	"context"
	"time"

	"studio8/internal/domain"
	"studio8/internal/models"

	"gorm.io/gorm"
)

// IncomeSummary totals income by transaction type over a period.
type IncomeSummary struct {
	DownPayments int64 `json:"down_payments"`
	Settlements  int64 `json:"settlements"`
	Total        int64 `json:"total"`
	Count        int64 `json:"count"`
}

type RevenuePoint struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) List(ctx context.Context, txType string, from, to *time.Time, page, limit int) ([]models.FinancialTransaction, int64, error) {
	q := r.period(r.db.WithContext(ctx).Model(&models.FinancialTransaction{}), from, to)
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.FinancialTransaction
	err := paginate(q.Order("created_at DESC").Order("id DESC"), page, limit).Find(&list).Error
	return list, total, err
}

func (r *TransactionRepository) ListByBooking(ctx context.Context, bookingID uint) ([]models.FinancialTransaction, error) {
	var list []models.FinancialTransaction
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *TransactionRepository) Summary(ctx context.Context, from, to *time.Time) (*IncomeSummary, error) {
	var rows []struct {
		Type  string
		Total int64
		Count int64
	}
	err := r.period(r.db.WithContext(ctx).Model(&models.FinancialTransaction{}), from, to).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("type").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	var s IncomeSummary
	for _, row := range rows {
		switch row.Type {
		case domain.TxTypeDownPayment:
			s.DownPayments = row.Total
		case domain.TxTypeSettlement:
			s.Settlements = row.Total
		}
		s.Total += row.Total
		s.Count += row.Count
	}
	return &s, nil
}

// RevenueByDay returns daily income for the last days days.
func (r *TransactionRepository) RevenueByDay(ctx context.Context, days int) ([]RevenuePoint, error) {
	since := time.Now().AddDate(0, 0, -days)
	var points []RevenuePoint
	err := r.db.WithContext(ctx).Model(&models.FinancialTransaction{}).
		Select("DATE(created_at) AS date, COALESCE(SUM(amount), 0) AS amount").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").Order("date ASC").
		Scan(&points).Error
	return points, err
}

func (r *TransactionRepository) period(q *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}
	return q
}
