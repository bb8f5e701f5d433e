package models

import (
	"time"

	"gorm.io/gorm"
)

// Client is the loyalty ledger of a studio customer, keyed by lower-cased email.
type Client struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Email         string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name          string         `gorm:"size:150" json:"name"`
	Phone         string         `gorm:"size:32" json:"phone"`
	FirstBooking  *time.Time     `json:"first_booking"`
	LastBooking   *time.Time     `json:"last_booking"`
	TotalBookings int            `gorm:"not null;default:0" json:"total_bookings"`
	TotalSpent    int64          `gorm:"not null;default:0" json:"total_spent"`
	LoyaltyPoints int64          `gorm:"not null;default:0" json:"loyalty_points"`
	LoyaltyTier   string         `gorm:"size:50" json:"loyalty_tier"`
	ReferralCode  string         `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	ReferredBy    string         `gorm:"size:20;index" json:"referred_by,omitempty"` // referral code used at creation
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Client) TableName() string { return "clients" }
