package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	StaffUserID uint           `gorm:"not null;index" json:"staff_user_id"`
	Type        string         `gorm:"size:50;not null;index" json:"type"`
	Severity    string         `gorm:"size:20;not null" json:"severity"`
	Message     string         `gorm:"type:text" json:"message"`
	Link        string         `gorm:"size:512" json:"link"`
	ReadAt      *time.Time     `json:"read_at"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	StaffUser StaffUser `gorm:"foreignKey:StaffUserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
