package models

import (
	"time"

	"gorm.io/gorm"
)

// FinancialTransaction records studio income (down payments and settlements).
type FinancialTransaction struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Kind        string         `gorm:"size:20;not null;index" json:"kind"` // INCOME
	Type        string         `gorm:"size:30;not null;index" json:"type"` // DP, SETTLEMENT
	Amount      int64          `gorm:"not null" json:"amount"`
	BookingID   *uint          `gorm:"index" json:"booking_id"`
	BookingCode string         `gorm:"size:16;index" json:"booking_code"`
	Description string         `gorm:"size:255" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FinancialTransaction) TableName() string {
	return "financial_transactions"
}
