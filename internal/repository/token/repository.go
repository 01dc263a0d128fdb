package token

import (
	"context"
	"time"
)

// ResetToken is a stored password reset grant. Only the hash of the token
// handed to the user is persisted.
type ResetToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token ResetToken) error
	// Consume marks an unused, unexpired token as used and returns its owner.
	Consume(ctx context.Context, tokenHash string, now time.Time) (string, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
