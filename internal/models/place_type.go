package models

// PlaceType is a venue category (library, café...). BaseScore is a read-only
// copy of calm.BaseScore written at seed time for clients; scoring reads calm.BaseScore.
type PlaceType struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Code      string `gorm:"uniqueIndex;size:50;not null" json:"code"`
	BaseScore int    `gorm:"not null;default:70" json:"base_score"`
}

func (PlaceType) TableName() string { return "place_types" }
