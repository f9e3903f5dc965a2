package service

import (
	"errors"
	"strings"

	"calmspot/internal/domain"
	"calmspot/internal/models"
	"calmspot/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrAdminNotFound    = errors.New("admin not found")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
	ErrLastAdmin        = errors.New("cannot remove the last admin")
)

// ProfileUpdate carries optional profile changes. Nil fields are left as is.
type ProfileUpdate struct {
	Username  *string `json:"username" binding:"omitempty,min=1,max=30"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	AvatarURL *string `json:"avatar" binding:"omitempty,max=512"`
	City      *string `json:"city" binding:"omitempty,max=100"`
}

// NewAccount is used by admins to create another admin.
type NewAccount struct {
	Username string `json:"username" binding:"required,min=1,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	City     string `json:"city" binding:"max=100"`
}

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(id uint) (*models.User, error) {
	u, err := s.userRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile applies upd to the user. A new email must not belong to someone else.
func (s *UserService) UpdateProfile(id uint, upd ProfileUpdate) (*models.User, error) {
	u, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.apply(u, upd)
}

func (s *UserService) apply(u *models.User, upd ProfileUpdate) (*models.User, error) {
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email != u.Email {
			other, err := s.userRepo.GetByEmail(email)
			if err == nil && other.ID != u.ID {
				return nil, ErrEmailExists
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			u.Email = email
		}
	}
	if upd.Username != nil {
		u.Username = strings.TrimSpace(*upd.Username)
	}
	if upd.Password != nil {
		hash, err := hashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	if upd.City != nil {
		u.City = *upd.City
	}
	if err := s.userRepo.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ListUsers(search string, page, limit int) ([]models.User, int64, error) {
	return s.userRepo.ListUsers(search, domain.RoleUser, page, limit)
}

// DeleteUser removes a regular account. Admin accounts go through DeleteAdmin.
func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.userRepo.GetByIDAndRole(id, domain.RoleUser); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.Delete(id)
}

func (s *UserService) ListAdmins(page, limit int) ([]models.User, int64, error) {
	return s.userRepo.ListUsers("", domain.RoleAdmin, page, limit)
}

func (s *UserService) GetAdmin(id uint) (*models.User, error) {
	u, err := s.userRepo.GetByIDAndRole(id, domain.RoleAdmin)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	return u, err
}

func (s *UserService) CreateAdmin(in NewAccount) (*models.User, error) {
	email := normalizeEmail(in.Email)
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		City:         in.City,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateAdmin(id uint, upd ProfileUpdate) (*models.User, error) {
	u, err := s.GetAdmin(id)
	if err != nil {
		return nil, err
	}
	return s.apply(u, upd)
}

// DeleteAdmin removes an admin account. Admins cannot delete themselves and
// at least one admin always remains.
func (s *UserService) DeleteAdmin(actorID, id uint) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	if _, err := s.GetAdmin(id); err != nil {
		return err
	}
	n, err := s.userRepo.CountByRole(domain.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return s.userRepo.Delete(id)
}
