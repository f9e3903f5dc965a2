package models

import (
	"time"

	"gorm.io/gorm"
)

// Place is a venue ("lieu"). Coordinates are WGS84 degrees in separate columns,
// distances are computed in the application layer.
type Place struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"size:50;not null;index" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Latitude    float64  `gorm:"type:decimal(10,8);not null;index:idx_place_lat_lng" json:"latitude"`
	Longitude   float64  `gorm:"type:decimal(11,8);not null;index:idx_place_lat_lng" json:"longitude"`
	CalmScore   *float64 `gorm:"type:decimal(4,1);index" json:"calm_score"`
	CalmLevel   string   `gorm:"size:30;index" json:"calm_level"`
	Address     string   `gorm:"type:text" json:"address"`
	ImageURL    string   `gorm:"size:512" json:"image_url"`
	// ThumbnailURL is set for uploaded images only.
	ThumbnailURL string         `gorm:"size:512" json:"thumbnail_url"`
	PlaceTypeID  uint           `gorm:"not null;index" json:"place_type_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	PlaceType PlaceType `gorm:"foreignKey:PlaceTypeID" json:"place_type"`
}

func (Place) TableName() string { return "places" }
