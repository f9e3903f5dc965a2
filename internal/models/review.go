package models

import "time"

// Review is a user's 1-5 rating of a place; one per (user, place).
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_review_user_place,unique" json:"user_id"`
	PlaceID   uint      `gorm:"not null;index:idx_review_user_place,unique;index" json:"place_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Place Place `gorm:"foreignKey:PlaceID" json:"-"`
}

func (Review) TableName() string { return "reviews" }
