package repository

import (
	"strings"

	"calmspot/internal/models"
	"calmspot/pkg/location"

	"gorm.io/gorm"
)

// PlaceFilters narrows a place listing. Zero values disable a filter.
type PlaceFilters struct {
	Search    string
	TypeIDs   []uint
	CalmLevel string
	Box       *location.Box
}

type PlaceRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func (r *PlaceRepository) Create(p *models.Place) error {
	return r.db.Create(p).Error
}

func (r *PlaceRepository) GetByID(id uint) (*models.Place, error) {
	var p models.Place
	if err := r.db.Preload("PlaceType").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlaceRepository) Exists(id uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.Place{}).Where("id = ?", id).Count(&c).Error
	return c > 0, err
}

func (r *PlaceRepository) Update(p *models.Place) error {
	return r.db.Omit("PlaceType").Save(p).Error
}

// UpdateCalm stores a freshly computed score without touching other columns.
func (r *PlaceRepository) UpdateCalm(id uint, score float64, level string) error {
	return r.db.Model(&models.Place{}).Where("id = ?", id).
		Updates(map[string]any{"calm_score": score, "calm_level": level}).Error
}

// Delete soft-deletes the place and drops its favorites and reviews.
func (r *PlaceRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Place{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("place_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Where("place_id = ?", id).Delete(&models.Review{}).Error
	})
}

// List returns places matching f, calmest first. Unscored places come last.
func (r *PlaceRepository) List(f PlaceFilters) ([]models.Place, error) {
	q := r.db.Model(&models.Place{}).Preload("PlaceType")
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if len(f.TypeIDs) > 0 {
		q = q.Where("place_type_id IN ?", f.TypeIDs)
	}
	if f.CalmLevel != "" {
		q = q.Where("calm_level = ?", f.CalmLevel)
	}
	if f.Box != nil {
		q = q.Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			f.Box.MinLat, f.Box.MaxLat, f.Box.MinLng, f.Box.MaxLng)
	}
	var list []models.Place
	err := q.Order("calm_score IS NULL").Order("calm_score DESC").Order("id").Find(&list).Error
	return list, err
}

func (r *PlaceRepository) ListByType(typeID uint) ([]models.Place, error) {
	var list []models.Place
	err := r.db.Preload("PlaceType").Where("place_type_id = ?", typeID).Order("id").Find(&list).Error
	return list, err
}

// ListIDs returns the IDs of every place, for batch recalculation.
func (r *PlaceRepository) ListIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Place{}).Order("id").Pluck("id", &ids).Error
	return ids, err
}
