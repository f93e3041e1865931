package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrMissingToken  = errors.New("missing token")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrMissingSecret = errors.New("secret is required")
)

const defaultIssuer = "notes-api"

// UserInfo identifies the caller inside an access token
type UserInfo struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Claims are the claims of an access token
type Claims struct {
	UserInfo UserInfo `json:"UserInfo"`
	gojwt.RegisteredClaims
}

// HasRole reports whether the caller holds role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.UserInfo.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RefreshClaims are the claims of a refresh token
type RefreshClaims struct {
	Username string `json:"username"`
	gojwt.RegisteredClaims
}

// Config holds JWT service configuration
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Service handles JWT operations
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewService creates a new JWT service
func NewService(cfg Config) (*Service, error) {
	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("access %w", ErrMissingSecret)
	}
	if cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("refresh %w", ErrMissingSecret)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}

	return &Service{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}, nil
}

// AccessTTL returns the lifetime of access tokens
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL returns the lifetime of refresh tokens
func (s *Service) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// GenerateAccessToken signs an access token for username with roles
func (s *Service) GenerateAccessToken(username string, roles []string) (string, error) {
	claims := &Claims{
		UserInfo:         UserInfo{Username: username, Roles: roles},
		RegisteredClaims: s.registered(username, s.accessTTL),
	}
	return s.sign(claims, s.accessSecret)
}

// GenerateRefreshToken signs a refresh token for username
func (s *Service) GenerateRefreshToken(username string) (string, error) {
	claims := &RefreshClaims{
		Username:         username,
		RegisteredClaims: s.registered(username, s.refreshTTL),
	}
	return s.sign(claims, s.refreshSecret)
}

// ValidateAccessToken verifies an access token and returns its claims.
// A "Bearer " prefix is accepted.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenString, claims, s.accessSecret); err != nil {
		return nil, err
	}
	if claims.UserInfo.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidClaims)
	}
	return claims, nil
}

// ValidateRefreshToken verifies a refresh token and returns its claims
func (s *Service) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenString, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidClaims)
	}
	return claims, nil
}

func (s *Service) registered(subject string, ttl time.Duration) gojwt.RegisteredClaims {
	now := s.now()
	return gojwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *Service) sign(claims gojwt.Claims, secret []byte) (string, error) {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) parse(tokenString string, claims gojwt.Claims, secret []byte) error {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return ErrMissingToken
	}

	token, err := gojwt.ParseWithClaims(tokenString, claims, func(token *gojwt.Token) (interface{}, error) {
		return secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(s.issuer),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
