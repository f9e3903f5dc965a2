package models

import "time"

// Feedback is a free-form message left by a visitor, optionally tied to an account.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Name      *string   `gorm:"size:100" json:"name"`
	Email     *string   `gorm:"size:150" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

func (Feedback) TableName() string { return "feedback" }
