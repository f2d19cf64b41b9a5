package models

import "time"

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

type LeaveApplication struct {
	ID      uint `gorm:"primaryKey"`
	OwnerID uint `gorm:"index;not null"`
	Owner   User

	StartDate time.Time   `gorm:"type:date;not null"`
	EndDate   time.Time   `gorm:"type:date;not null"`
	Reason    string      `gorm:"size:255"`
	Status    LeaveStatus `gorm:"size:20;not null;default:pending"`

	// Kararı veren admin (onay/ret sonrası dolar)
	DecidedBy *uint
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
