// Package services holds the business logic between controllers and
// repositories.
package services

import (
	"errors"

	"github.com/nikhilrana/saman/app/models"
	"github.com/nikhilrana/saman/app/repositories"
	"github.com/nikhilrana/saman/pkg/auth"
)

// ErrInvalidCredentials is returned when a login or refresh cannot be tied
// to an active account.
var ErrInvalidCredentials = errors.New("no active account found with the given credentials")

// AuthService implements registration and the JWT token-pair flows.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new active, non-staff account with a hashed password.
// A taken username surfaces as repositories.ErrDuplicate.
func (s *AuthService) Register(username, email, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsActive: true,
		IsStaff:  false,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login checks the credentials and issues a token pair.
func (s *AuthService) Login(username, password string) (auth.TokenPair, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return auth.TokenPair{}, ErrInvalidCredentials
		}
		return auth.TokenPair{}, err
	}

	if !user.IsActive || !auth.CheckPassword(user.Password, password) {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	return auth.GeneratePair(user.ID, user.Username)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(refreshToken string) (auth.TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken, auth.TypeRefresh)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil || !user.IsActive {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	return auth.GeneratePair(user.ID, user.Username)
}
