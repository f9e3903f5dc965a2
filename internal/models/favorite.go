package models

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_fav_user_place,unique" json:"user_id"`
	PlaceID   uint      `gorm:"not null;index:idx_fav_user_place,unique;index" json:"place_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Place Place `gorm:"foreignKey:PlaceID" json:"place"`
}

func (Favorite) TableName() string {
	return "favorites"
}
