package repository

import (
	"context"

	"calmspot/internal/calm"
	"calmspot/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type NoiseCategoryRepository struct {
	db *gorm.DB
}

func NewNoiseCategoryRepository(db *gorm.DB) *NoiseCategoryRepository {
	return &NoiseCategoryRepository{db: db}
}

func (r *NoiseCategoryRepository) List() ([]models.NoiseCategory, error) {
	var list []models.NoiseCategory
	err := r.db.Order("id").Find(&list).Error
	return list, err
}

func (r *NoiseCategoryRepository) GetByID(id uint) (*models.NoiseCategory, error) {
	var c models.NoiseCategory
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *NoiseCategoryRepository) Update(c *models.NoiseCategory) error {
	return r.db.Save(c).Error
}

// ListNoiseCategories implements calm.CategoryStore.
func (r *NoiseCategoryRepository) ListNoiseCategories(ctx context.Context) ([]calm.CategoryConfig, error) {
	var list []models.NoiseCategory
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return lo.Map(list, func(c models.NoiseCategory, _ int) calm.CategoryConfig {
		return calm.CategoryConfig{
			ID:          int(c.ID),
			Name:        c.Code,
			Weight:      c.Weight,
			DecayRadius: c.DecayRadius,
		}
	}), nil
}
