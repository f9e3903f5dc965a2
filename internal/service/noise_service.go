package service

import (
	"context"
	"errors"

	"calmspot/internal/models"
	"calmspot/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrNoiseCategoryNotFound = errors.New("noise category not found")
	ErrInvalidDecayRadius    = errors.New("decay_radius must be positive")
)

// CategoryReloader refreshes the scoring configuration after an edit.
type CategoryReloader interface {
	LoadCategoryConfig(ctx context.Context) error
}

type NoiseCategoryUpdate struct {
	Weight      *float64 `json:"weight"`
	DecayRadius *float64 `json:"decay_radius"`
}

type NoiseCategoryService struct {
	repo     *repository.NoiseCategoryRepository
	reloader CategoryReloader
}

func NewNoiseCategoryService(repo *repository.NoiseCategoryRepository, reloader CategoryReloader) *NoiseCategoryService {
	return &NoiseCategoryService{repo: repo, reloader: reloader}
}

func (s *NoiseCategoryService) List() ([]models.NoiseCategory, error) {
	return s.repo.List()
}

// Update changes a category's weight or decay radius and reloads the scoring cache.
func (s *NoiseCategoryService) Update(ctx context.Context, id uint, upd NoiseCategoryUpdate) (*models.NoiseCategory, error) {
	if upd.DecayRadius != nil && *upd.DecayRadius <= 0 {
		return nil, ErrInvalidDecayRadius
	}
	c, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoiseCategoryNotFound
		}
		return nil, err
	}
	if upd.Weight != nil {
		c.Weight = *upd.Weight
	}
	if upd.DecayRadius != nil {
		c.DecayRadius = *upd.DecayRadius
	}
	if err := s.repo.Update(c); err != nil {
		return nil, err
	}
	if err := s.reloader.LoadCategoryConfig(ctx); err != nil {
		return c, err
	}
	return c, nil
}

func (s *NoiseCategoryService) Reload(ctx context.Context) error {
	return s.reloader.LoadCategoryConfig(ctx)
}
