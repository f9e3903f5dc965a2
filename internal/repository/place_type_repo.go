package repository

import (
	"calmspot/internal/models"

	"gorm.io/gorm"
)

type PlaceTypeRepository struct {
	db *gorm.DB
}

func NewPlaceTypeRepository(db *gorm.DB) *PlaceTypeRepository {
	return &PlaceTypeRepository{db: db}
}

func (r *PlaceTypeRepository) List() ([]models.PlaceType, error) {
	var list []models.PlaceType
	err := r.db.Order("id").Find(&list).Error
	return list, err
}

func (r *PlaceTypeRepository) GetByID(id uint) (*models.PlaceType, error) {
	var t models.PlaceType
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// IDsByCodes resolves type codes (LIBRARY, CAFE...) to IDs. Unknown codes are ignored.
func (r *PlaceTypeRepository) IDsByCodes(codes []string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.PlaceType{}).Where("code IN ?", codes).Pluck("id", &ids).Error
	return ids, err
}
