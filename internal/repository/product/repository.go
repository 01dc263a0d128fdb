package product

import (
	"context"

	"shoplab/internal/domain"
)

type Repository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// Upsert inserts or updates a product keyed by name; used by seed and import.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
