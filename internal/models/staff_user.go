package models

import (
	"time"

	"studio8/internal/domain"

	"gorm.io/gorm"
)

// StaffUser is an operator account (admin or staff) of the studio back office.
type StaffUser struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:150" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // ADMIN | STAFF
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"`      // nil until first Google sign-in
	FCMToken     string         `gorm:"size:512" json:"-"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (StaffUser) TableName() string { return "staff_users" }

func (u *StaffUser) IsAdmin() bool { return u.Role == domain.RoleAdmin }
