package identity

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUnsupported  = errors.New("operation not supported by identity provider")
)

type User struct {
	ID    string
	Email string
}

// Provider is the system of record for user credentials.
type Provider interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	UpdatePasswordByID(ctx context.Context, id, newPassword string) error
}

// EmailPasswordUpdater is implemented by providers that can change a password
// directly by email, skipping the user lookup.
type EmailPasswordUpdater interface {
	UpdatePasswordByEmail(ctx context.Context, email, newPassword string) error
}
