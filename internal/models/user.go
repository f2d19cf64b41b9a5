package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:100;uniqueIndex;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`

	// Doğrulama bayrakları
	EmailVerified bool `gorm:"default:false"` // e-posta doğrulandı mı
	Verified      bool `gorm:"default:false"` // admin tarafından onaylandı mı
	IsAdmin       bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
