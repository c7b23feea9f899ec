// Package auth provides password verification and session management.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/okanele/peoplebook/internal/models"
	"github.com/okanele/peoplebook/internal/storage"
)

// ErrInvalidCredentials is returned when the username is unknown or the
// password does not match. The two cases are indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of storage the authenticator needs. This keeps the
// authenticator independent of the storage implementation.
type UserStore interface {
	GetUserByName(ctx context.Context, username string) (*models.User, error)
}

// PasswordAuthenticator verifies username/password pairs against bcrypt
// hashes held in the user store.
type PasswordAuthenticator struct {
	store UserStore
}

// NewPasswordAuthenticator creates a password-based authenticator.
func NewPasswordAuthenticator(store UserStore) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// Authenticate verifies the username and password, returning the account if
// valid. Storage failures are returned as-is; they are not credential errors.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.store.GetUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// HashPassword generates a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
