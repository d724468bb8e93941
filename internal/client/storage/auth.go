package storage

import (
	"context"
	"time"
)

//go:generate go tool moq -out auth_mock.go . AuthStorage

// AuthStorage defines interface for storing the client session
type AuthStorage interface {
	// SaveAuth stores session data, replacing the previous session
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the stored session
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session (logout)
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a non-expired session exists
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the stored client session
type AuthData struct {
	Username     string `json:"username"`
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds истечения access token
}

// Expired reports whether the access token is past its expiry
func (a *AuthData) Expired(now time.Time) bool {
	return a.ExpiresAt > 0 && now.Unix() >= a.ExpiresAt
}
