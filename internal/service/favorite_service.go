package service

import (
	"errors"

	"calmspot/internal/models"
	"calmspot/internal/repository"
)

var (
	ErrAlreadyFavorite  = errors.New("place is already a favorite")
	ErrFavoriteNotFound = errors.New("place is not a favorite")
)

type FavoriteService struct {
	favorites *repository.FavoriteRepository
	places    *repository.PlaceRepository
}

func NewFavoriteService(favorites *repository.FavoriteRepository, places *repository.PlaceRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, places: places}
}

func (s *FavoriteService) Add(userID, placeID uint) error {
	ok, err := s.places.Exists(placeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPlaceNotFound
	}
	fav, err := s.favorites.IsFavorite(userID, placeID)
	if err != nil {
		return err
	}
	if fav {
		return ErrAlreadyFavorite
	}
	return s.favorites.Add(userID, placeID)
}

func (s *FavoriteService) Remove(userID, placeID uint) error {
	ok, err := s.favorites.Remove(userID, placeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *FavoriteService) List(userID uint) ([]models.Favorite, error) {
	return s.favorites.ListByUserID(userID)
}
