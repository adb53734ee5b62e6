package pos

import (
	"errors"

	"github.com/jinzhu/gorm"

	"maitred/internal/auth"
	"maitred/internal/models"
	"maitred/internal/store"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfRoleChange     = errors.New("cannot change your own role")
	ErrBadRole            = errors.New("unknown role")
)

// StaffService manages user accounts and role assignment.
type StaffService struct {
	store *store.Store
}

// NewStaffService creates the service on top of the record store.
func NewStaffService(s *store.Store) *StaffService {
	return &StaffService{store: s}
}

// SignUp registers a new account with the default role and a hashed
// password.
func (s *StaffService) SignUp(email, name, password string) (*models.User, error) {
	var existing models.User
	if err := s.store.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		Name:         name,
		Role:         models.DefaultRole,
		PasswordHash: hash,
	}
	err = s.store.Write(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	}, store.Users)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the password against the stored hash. There is no
// email-only path.
func (s *StaffService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.store.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// ChangeRole assigns a new role to another user. Actors can never change
// their own role; the guard runs before any write is issued.
func (s *StaffService) ChangeRole(actorID, userID uint, role models.Role) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrBadRole
	}
	if actorID == userID {
		return nil, ErrSelfRoleChange
	}

	var user models.User
	if err := s.store.DB.First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	err := s.store.Write(func(tx *gorm.DB) error {
		return tx.Model(&user).Update("role", role).Error
	}, store.Users)
	if err != nil {
		return nil, err
	}
	user.Role = role
	return &user, nil
}

// List returns all staff accounts.
func (s *StaffService) List() ([]models.User, error) {
	var users []models.User
	if err := s.store.DB.Order("name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns one account.
func (s *StaffService) Get(userID uint) (*models.User, error) {
	var user models.User
	if err := s.store.DB.First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}
