package user

import (
	"context"

	"shoplab/internal/domain"
)

// Repository persists and fetches user accounts.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id string, in domain.ProfileUpdate) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
	SetPassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
