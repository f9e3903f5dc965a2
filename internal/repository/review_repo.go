package repository

import (
	"errors"

	"calmspot/internal/models"

	"gorm.io/gorm"
)

// ReviewEntry is a review with the author's and the place's display names.
type ReviewEntry struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	PlaceID   uint   `json:"place_id"`
	PlaceName string `json:"place_name"`
	Rating    int    `json:"rating"`
}

// RatingStats aggregates the reviews of a place.
type RatingStats struct {
	PlaceID       uint     `json:"-"`
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert creates the user's review of the place or updates its rating.
// created reports whether a new review was inserted.
func (r *ReviewRepository) Upsert(userID, placeID uint, rating int) (created bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		err := tx.Where("user_id = ? AND place_id = ?", userID, placeID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(&models.Review{UserID: userID, PlaceID: placeID, Rating: rating}).Error
		}
		if err != nil {
			return err
		}
		existing.Rating = rating
		return tx.Save(&existing).Error
	})
	return created, err
}

// Delete removes the review and reports whether one existed.
func (r *ReviewRepository) Delete(userID, placeID uint) (bool, error) {
	res := r.db.Where("user_id = ? AND place_id = ?", userID, placeID).Delete(&models.Review{})
	return res.RowsAffected > 0, res.Error
}

func (r *ReviewRepository) entries() *gorm.DB {
	return r.db.Table("reviews").
		Select("reviews.user_id, users.username, reviews.place_id, places.name AS place_name, reviews.rating").
		Joins("JOIN users ON users.id = reviews.user_id").
		Joins("JOIN places ON places.id = reviews.place_id AND places.deleted_at IS NULL")
}

func (r *ReviewRepository) Get(userID, placeID uint) (*ReviewEntry, error) {
	var e ReviewEntry
	res := r.entries().Where("reviews.user_id = ? AND reviews.place_id = ?", userID, placeID).Limit(1).Scan(&e)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *ReviewRepository) ListByPlace(placeID uint) ([]ReviewEntry, error) {
	list := []ReviewEntry{}
	err := r.entries().Where("reviews.place_id = ?", placeID).Order("reviews.updated_at DESC").Scan(&list).Error
	return list, err
}

func (r *ReviewRepository) ListByUser(userID uint) ([]ReviewEntry, error) {
	list := []ReviewEntry{}
	err := r.entries().Where("reviews.user_id = ?", userID).Order("reviews.updated_at DESC").Scan(&list).Error
	return list, err
}

// StatsByPlaces returns rating aggregates keyed by place ID. Places without
// reviews are absent from the map. Reviews without a live author are not counted.
func (r *ReviewRepository) StatsByPlaces(placeIDs []uint) (map[uint]RatingStats, error) {
	out := make(map[uint]RatingStats)
	if len(placeIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PlaceID uint
		Avg     float64
		Cnt     int64
	}
	err := r.db.Model(&models.Review{}).
		Select("reviews.place_id, AVG(reviews.rating) AS avg, COUNT(*) AS cnt").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.place_id IN ?", placeIDs).
		Group("reviews.place_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		avg := row.Avg
		out[row.PlaceID] = RatingStats{PlaceID: row.PlaceID, AverageRating: &avg, ReviewCount: row.Cnt}
	}
	return out, nil
}
