package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

const AdminRole = "admin"

// AuthService checks the single configured admin identity.
type AuthService struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
	tokenExpiry  time.Duration
}

// NewAuthService prefers ADMIN_PASSWORD_HASH; a plaintext ADMIN_PASSWORD is
// hashed once here and never kept.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		if cfg.AdminPassword == "" {
			return nil, errors.New("admin password not configured")
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid ADMIN_PASSWORD_HASH: %w", err)
	}

	return &AuthService{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		jwtSecret:    []byte(cfg.JWTSecret),
		tokenExpiry:  cfg.JWTAccessExpiry,
	}, nil
}

func (s *AuthService) Authenticate(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueToken signs a short-lived admin token for programmatic access.
func (s *AuthService) IssueToken(username string) (string, time.Duration, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  username,
		"role": AdminRole,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, s.tokenExpiry, nil
}

// HashPassword produces a value suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
