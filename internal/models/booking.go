package models

import (
	"time"

	"gorm.io/datatypes"
)

// PackageSnapshot is the package/sub-package as priced when the booking was made.
type PackageSnapshot struct {
	PackageID      string `json:"package_id"`
	PackageName    string `json:"package_name"`
	IsGroupPackage bool   `json:"is_group_package"`
	SubPackageID   string `json:"sub_package_id"`
	SubPackageName string `json:"sub_package_name"`
	Price          int64  `json:"price"`
}

// AddOnSnapshot is one selected sub-add-on as priced when the booking was made.
type AddOnSnapshot struct {
	AddOnID    string `json:"add_on_id"`
	AddOnName  string `json:"add_on_name"`
	SubAddOnID string `json:"sub_add_on_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
}

// Booking holds value copies of client and catalog data; later catalog edits never touch it.
type Booking struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"uniqueIndex;size:16;not null" json:"code"`
	ClientName  string `gorm:"size:150;not null" json:"client_name"`
	ClientEmail string `gorm:"size:255;not null;index" json:"client_email"`
	ClientPhone string `gorm:"size:32" json:"client_phone"`

	PackageID string                              `gorm:"size:64;index" json:"package_id"`
	Package   datatypes.JSONType[PackageSnapshot] `json:"package"`
	AddOns    datatypes.JSONType[[]AddOnSnapshot] `json:"add_ons"`

	NumberOfPeople int        `gorm:"not null;default:1" json:"number_of_people"`
	BookingDate    time.Time  `gorm:"not null;index" json:"booking_date"`
	RequestedDate  *time.Time `json:"requested_date,omitempty"`

	PaymentMethod string `gorm:"size:20" json:"payment_method"`
	PaymentStatus string `gorm:"size:20;not null;index" json:"payment_status"`
	BookingStatus string `gorm:"size:30;not null;index" json:"booking_status"`

	Subtotal          int64  `gorm:"not null" json:"subtotal"`
	ExtraPersonCharge int64  `gorm:"not null;default:0" json:"extra_person_charge"`
	BaseDiscount      int64  `gorm:"not null;default:0" json:"base_discount"`
	DiscountAmount    int64  `gorm:"not null;default:0" json:"discount_amount"`
	DiscountReason    string `gorm:"size:150" json:"discount_reason"`
	ReferralCodeUsed  string `gorm:"size:20" json:"referral_code_used,omitempty"`
	PointsRedeemed    int64  `gorm:"not null;default:0" json:"points_redeemed"`
	PointsValue       int64  `gorm:"not null;default:0" json:"points_value"`
	TotalPrice        int64  `gorm:"not null" json:"total_price"`
	DPAmount          int64  `gorm:"not null;default:0" json:"dp_amount"`
	RemainingBalance  int64  `gorm:"not null" json:"remaining_balance"`

	PaymentProofURL  string `gorm:"size:512" json:"payment_proof_url,omitempty"`
	Notes            string `gorm:"type:text" json:"notes,omitempty"`
	DeliverableLink  string `gorm:"size:512" json:"deliverable_link,omitempty"`
	RescheduleReason string `gorm:"type:text" json:"reschedule_reason,omitempty"`
	CancelReason     string `gorm:"type:text" json:"cancel_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
