package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is the back-office activity trail (who changed which booking, and how).
type AuditLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	StaffUserID *uint             `gorm:"index" json:"staff_user_id"`
	Action      string            `gorm:"size:100;not null;index" json:"action"`
	Resource    string            `gorm:"size:100;index" json:"resource"`
	ResourceID  string            `gorm:"size:100;index" json:"resource_id"`
	IP          string            `gorm:"size:45" json:"ip"`
	UserAgent   string            `gorm:"size:512" json:"user_agent"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
