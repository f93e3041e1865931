package service

import (
	"context"

	"github.com/forgo/notes/api/internal/model"
	"github.com/forgo/notes/api/pkg/jwt"
)

// UserLookup finds users by username
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthService handles login and access token refresh
type AuthService struct {
	userRepo   UserLookup
	jwtService *jwt.Service
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo   UserLookup
	JWTService *jwt.Service
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:   cfg.UserRepo,
		jwtService: cfg.JWTService,
	}
}

// LoginResult holds the tokens issued on login
type LoginResult struct {
	AccessToken  string
	RefreshToken string
}

// Login authenticates an active user with username and password
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*LoginResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	access, err := s.jwtService.GenerateAccessToken(user.Username, user.RoleStrings())
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByUsername(ctx, claims.Username)
	if err != nil {
		return "", err
	}
	if user == nil || !user.Active {
		return "", ErrInvalidCredentials
	}

	return s.jwtService.GenerateAccessToken(user.Username, user.RoleStrings())
}
