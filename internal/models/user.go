package models

import (
	"time"

	"calmspot/internal/domain"
)

// User rows are hard-deleted so an email frees up with its account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:30;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:320;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         string    `gorm:"size:30;not null;default:USER;index" json:"role"` // USER | ADMIN
	City         string    `gorm:"size:100" json:"city"`
	AvatarURL    string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
