package repository

import (
	"calmspot/internal/models"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(f *models.Feedback) error {
	return r.db.Create(f).Error
}

func (r *FeedbackRepository) List(page, limit int) ([]models.Feedback, int64, error) {
	var total int64
	if err := r.db.Model(&models.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Feedback
	err := r.db.Preload("User").Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *FeedbackRepository) GetByID(id uint) (*models.Feedback, error) {
	var f models.Feedback
	if err := r.db.Preload("User").First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete removes the feedback and reports whether it existed.
func (r *FeedbackRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&models.Feedback{}, id)
	return res.RowsAffected > 0, res.Error
}
