package service

import (
	"errors"
	"strings"

	"calmspot/internal/models"
	"calmspot/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrEmptyMessage     = errors.New("message is required")
)

type FeedbackInput struct {
	Name    *string `json:"name" binding:"omitempty,max=100"`
	Email   *string `json:"email" binding:"omitempty,email,max=150"`
	Message string  `json:"message" binding:"required,max=5000"`
}

type FeedbackService struct {
	feedback *repository.FeedbackRepository
	users    *repository.UserRepository
}

func NewFeedbackService(feedback *repository.FeedbackRepository, users *repository.UserRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback, users: users}
}

// Submit stores a feedback message. userID is 0 for anonymous visitors; an
// unknown user ID is dropped rather than rejected.
func (s *FeedbackService) Submit(userID uint, in FeedbackInput) (*models.Feedback, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	f := &models.Feedback{Name: in.Name, Email: in.Email, Message: msg}
	if userID != 0 {
		if _, err := s.users.GetByID(userID); err == nil {
			f.UserID = &userID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if err := s.feedback.Create(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) List(page, limit int) ([]models.Feedback, int64, error) {
	return s.feedback.List(page, limit)
}

func (s *FeedbackService) Get(id uint) (*models.Feedback, error) {
	f, err := s.feedback.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFeedbackNotFound
	}
	return f, err
}

func (s *FeedbackService) Delete(id uint) error {
	ok, err := s.feedback.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFeedbackNotFound
	}
	return nil
}
