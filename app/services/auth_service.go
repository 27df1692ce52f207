package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/apperr"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
)

// TokenPair is the access/refresh token set issued at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService issues and refreshes JWT credentials.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login verifies credentials and returns a token pair. identity may be a
// username or an email address. A wrong identity and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(identity, password string) (*models.User, *TokenPair, error) {
	var (
		user *models.User
		err  error
	)
	if strings.Contains(identity, "@") {
		user, err = s.users.FindByEmail(identity)
	} else {
		user, err = s.users.FindByUsername(identity)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, nil, apperr.Internal(err, "look up user %q", identity)
	}

	if !user.Active {
		return nil, nil, apperr.Unauthorized("account is deactivated")
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, nil, apperr.Unauthorized("invalid credentials")
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// re-loaded so role changes and deactivations take effect immediately.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("invalid refresh token")
		}
		return nil, apperr.Internal(err, "load user %d", claims.UserID)
	}
	if !user.Active {
		return nil, apperr.Unauthorized("account is deactivated")
	}

	return s.issue(user)
}

// Me returns the authenticated user's own profile.
func (s *AuthService) Me(actorID uint) (*models.User, error) {
	user, err := s.users.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", actorID)
		}
		return nil, apperr.Internal(err, "load user %d", actorID)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err, "sign access token")
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err, "sign refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
