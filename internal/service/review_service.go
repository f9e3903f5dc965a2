package service

import (
	"errors"
	"fmt"

	"calmspot/internal/domain"
	"calmspot/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = fmt.Errorf("rating must be between %d and %d", domain.MinRating, domain.MaxRating)
)

type ReviewService struct {
	reviews *repository.ReviewRepository
	places  *repository.PlaceRepository
	users   *repository.UserRepository
}

func NewReviewService(reviews *repository.ReviewRepository, places *repository.PlaceRepository, users *repository.UserRepository) *ReviewService {
	return &ReviewService{reviews: reviews, places: places, users: users}
}

// Rate creates or updates the user's review of a place. Tokens outlive
// deleted accounts, so the author is looked up first.
func (s *ReviewService) Rate(userID, placeID uint, rating int) (*repository.ReviewEntry, bool, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, false, ErrInvalidRating
	}
	if _, err := s.users.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, err
	}
	if err := s.ensurePlace(placeID); err != nil {
		return nil, false, err
	}
	created, err := s.reviews.Upsert(userID, placeID, rating)
	if err != nil {
		return nil, false, err
	}
	entry, err := s.reviews.Get(userID, placeID)
	if err != nil {
		return nil, false, err
	}
	return entry, created, nil
}

func (s *ReviewService) ListByPlace(placeID uint) ([]repository.ReviewEntry, error) {
	if err := s.ensurePlace(placeID); err != nil {
		return nil, err
	}
	return s.reviews.ListByPlace(placeID)
}

func (s *ReviewService) ListByUser(userID uint) ([]repository.ReviewEntry, error) {
	return s.reviews.ListByUser(userID)
}

func (s *ReviewService) Delete(userID, placeID uint) error {
	ok, err := s.reviews.Delete(userID, placeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReviewNotFound
	}
	return nil
}

func (s *ReviewService) ensurePlace(placeID uint) error {
	ok, err := s.places.Exists(placeID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPlaceNotFound
	}
	return nil
}
