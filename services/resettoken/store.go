package resettoken

import (
	"context"
	"errors"
	"time"
)

var ErrTokenNotFound = errors.New("reset token not found, expired, or already used")

// Store holds at most one reset token per email.
type Store interface {
	// Upsert replaces any existing token for email with a fresh, unused one.
	Upsert(ctx context.Context, email, code string, expiresAt time.Time) error
	// Find returns the unused, unexpired token matching email and code.
	Find(ctx context.Context, email, code string, now time.Time) (*ResetToken, error)
	// Consume marks the matching token used. Exactly one of several concurrent
	// callers succeeds; the rest get ErrTokenNotFound.
	Consume(ctx context.Context, email, code string, now time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
