package auth

import (
	"errors"
	"time"
)

// AdminUser is an administrator account for the clinic dashboard.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is an authenticated admin session.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      AdminUser `json:"user"`
}

var (
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")

	// ErrNotFound is returned when an admin user does not exist.
	ErrNotFound = errors.New("auth: admin user not found")

	// ErrInvalidToken is returned for a malformed, forged or expired token.
	ErrInvalidToken = errors.New("auth: invalid token")
)
