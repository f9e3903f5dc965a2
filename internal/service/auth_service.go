package service

import (
	"errors"
	"strings"

	"calmspot/config"
	"calmspot/internal/auth"
	"calmspot/internal/domain"
	"calmspot/internal/models"
	"calmspot/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

// TokenPair is returned on register, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// Register creates a USER account and signs it in.
func (s *AuthService) Register(name, email, password string) (*models.User, *TokenPair, error) {
	email = normalizeEmail(email)
	if err := s.ensureEmailFree(email); err != nil {
		return nil, nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, nil, err
	}
	u := &models.User{
		Username:     strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, nil, err
	}
	tokens, err := s.issue(u)
	if err != nil {
		return u, nil, err
	}
	return u, tokens, nil
}

func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	u, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCreds
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCreds
	}
	tokens, err := s.issue(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The user's
// current role is read from the database.
func (s *AuthService) RefreshToken(refreshToken string) (*TokenPair, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (*TokenPair, error) {
	access, refresh, err := auth.GenerateTokenPair(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) ensureEmailFree(email string) error {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
