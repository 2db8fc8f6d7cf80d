package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is an authenticated account. GoogleID and PasswordHash are nullable:
// OAuth-created accounts have no password and vice versa.
type User struct {
	ID           uuid.UUID
	GoogleID     *string
	Email        string
	PasswordHash *string
	Name         string
	Avatar       *string
	IsAdmin      bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegisterRequest for email/password registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OAuthProvider constants.
const OAuthProviderGoogle = "google"
