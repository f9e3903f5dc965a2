package database

import (
	"errors"
	"fmt"
	"log/slog"

	"calmspot/config"
	"calmspot/internal/calm"
	"calmspot/internal/domain"
	"calmspot/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var placeTypeSeeds = []models.PlaceType{
	{ID: domain.PlaceTypeLibrary, Code: "LIBRARY"},
	{ID: domain.PlaceTypeCafe, Code: "CAFE"},
	{ID: domain.PlaceTypeCoworking, Code: "COWORKING"},
	{ID: domain.PlaceTypeStudyRoom, Code: "STUDY_ROOM"},
}

// Starting weights; admins tune them through the noise category endpoints.
var noiseCategorySeeds = []models.NoiseCategory{
	{ID: calm.CategorySchool, Code: "SCHOOL", Weight: 15, DecayRadius: 150},
	{ID: calm.CategoryMosque, Code: "MOSQUE", Weight: 10, DecayRadius: 120},
	{ID: calm.CategoryMainRoad, Code: "MAIN_ROAD", Weight: 20, DecayRadius: 150},
	{ID: calm.CategoryCarpentry, Code: "CARPENTRY", Weight: 12, DecayRadius: 80},
	{ID: calm.CategoryCafe, Code: "CAFE", Weight: 6, DecayRadius: 60},
	{ID: calm.CategoryStadium, Code: "STADIUM", Weight: 15, DecayRadius: 200},
	{ID: calm.CategoryConstruction, Code: "CONSTRUCTION", Weight: 18, DecayRadius: 120},
	{ID: calm.CategoryShoppingCenter, Code: "SHOPPING_CENTER", Weight: 12, DecayRadius: 120},
	{ID: calm.CategoryStation, Code: "STATION", Weight: 15, DecayRadius: 180},
}

// Seed inserts reference data and the first admin. Existing rows are left untouched.
func Seed(db *gorm.DB, admin *config.AdminSeedConfig) error {
	types := make([]models.PlaceType, len(placeTypeSeeds))
	for i, t := range placeTypeSeeds {
		t.BaseScore = int(calm.BaseScore(int(t.ID)))
		types[i] = t
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&types).Error; err != nil {
		return fmt.Errorf("seed place types: %w", err)
	}

	cats := make([]models.NoiseCategory, len(noiseCategorySeeds))
	copy(cats, noiseCategorySeeds)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cats).Error; err != nil {
		return fmt.Errorf("seed noise categories: %w", err)
	}

	if admin != nil {
		if err := seedAdmin(db, admin); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(db *gorm.DB, cfg *config.AdminSeedConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	var existing models.User
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("seed admin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	u := &models.User{
		Username:     "admin",
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(u).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	slog.Info("admin account created", "email", cfg.Email)
	return nil
}
