package models

import "time"

// Referral links a new client to the client whose code they used on their first booking.
// A client can be referred only once; the bonus is credited on the referred client's first
// completed booking.
type Referral struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ReferrerClientID uint       `gorm:"not null;index" json:"referrer_client_id"`
	ReferredClientID uint       `gorm:"uniqueIndex;not null" json:"referred_client_id"`
	Code             string     `gorm:"size:20;not null;index" json:"code"`
	BookingID        uint       `gorm:"not null" json:"booking_id"`
	BonusPoints      int64      `gorm:"not null;default:0" json:"bonus_points"`
	BonusCreditedAt  *time.Time `json:"bonus_credited_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Referrer *Client `gorm:"foreignKey:ReferrerClientID" json:"referrer,omitempty"`
	Referred *Client `gorm:"foreignKey:ReferredClientID" json:"referred,omitempty"`
}

func (Referral) TableName() string { return "referrals" }
