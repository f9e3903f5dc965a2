package repository

import (
	"calmspot/internal/models"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(userID, placeID uint) error {
	return r.db.Create(&models.Favorite{UserID: userID, PlaceID: placeID}).Error
}

// Remove deletes the favorite and reports whether one existed.
func (r *FavoriteRepository) Remove(userID, placeID uint) (bool, error) {
	res := r.db.Where("user_id = ? AND place_id = ?", userID, placeID).Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}

func (r *FavoriteRepository) IsFavorite(userID, placeID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.Favorite{}).Where("user_id = ? AND place_id = ?", userID, placeID).Count(&c).Error
	return c > 0, err
}

// FavoritePlaceIDs returns which of placeIDs the user has favorited.
func (r *FavoriteRepository) FavoritePlaceIDs(userID uint, placeIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool)
	if userID == 0 || len(placeIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND place_id IN ?", userID, placeIDs).
		Pluck("place_id", &ids).Error
	for _, id := range ids {
		out[id] = true
	}
	return out, err
}

func (r *FavoriteRepository) ListByUserID(userID uint) ([]models.Favorite, error) {
	var list []models.Favorite
	err := r.db.Where("favorites.user_id = ?", userID).
		Joins("JOIN places ON places.id = favorites.place_id AND places.deleted_at IS NULL").
		Preload("Place.PlaceType").
		Order("favorites.created_at DESC").
		Find(&list).Error
	return list, err
}
