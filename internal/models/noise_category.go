package models

import "time"

// NoiseCategory holds the scoring parameters of one kind of noise source.
// Weight is a magnitude in score points, DecayRadius is the half-impact distance in meters.
type NoiseCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Weight      float64   `gorm:"not null" json:"weight"`
	DecayRadius float64   `gorm:"not null" json:"decay_radius"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (NoiseCategory) TableName() string { return "noise_categories" }
