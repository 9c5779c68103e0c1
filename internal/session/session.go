// Package session issues and validates admin bearer tokens.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when the admin password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAdminDisabled is returned when no admin password hash is configured
	ErrAdminDisabled = errors.New("admin access is not configured")
)

// Store persists session tokens with a fixed time-to-live
type Store interface {
	// Issue creates and stores a new token
	Issue(ctx context.Context) (token string, expiresAt time.Time, err error)
	// Validate reports whether the token exists and has not expired
	Validate(ctx context.Context, token string) (bool, error)
	// Revoke removes the token; unknown tokens are not an error
	Revoke(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.NewString()
}

// Authenticator checks the admin password against a bcrypt hash
// and hands out tokens from a Store.
type Authenticator struct {
	hash  []byte
	store Store
}

// NewAuthenticator creates an authenticator. An empty hash disables login.
func NewAuthenticator(passwordHash string, store Store) *Authenticator {
	return &Authenticator{hash: []byte(passwordHash), store: store}
}

// Login verifies the password and issues a token
func (a *Authenticator) Login(ctx context.Context, password string) (string, time.Time, error) {
	if len(a.hash) == 0 {
		return "", time.Time{}, ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.store.Issue(ctx)
}

// Logout revokes the token
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	return a.store.Revoke(ctx, token)
}

// Authorized reports whether the token is a live session
func (a *Authenticator) Authorized(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return a.store.Validate(ctx, token)
}

// HashPassword returns a bcrypt hash suitable for admin_password_hash
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
