package review

import (
	"context"

	"shoplab/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	Update(ctx context.Context, id string, rating int, comment string) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
