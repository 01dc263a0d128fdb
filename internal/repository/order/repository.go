package order

import (
	"context"

	"shoplab/internal/domain"
)

type Repository interface {
	// Place converts the user's cart into an order in a single transaction.
	// It returns domain.ErrEmptyCart, domain.ErrInsufficientStock or
	// domain.ErrConflict (lock contention) without writing anything.
	Place(ctx context.Context, userID, shippingAddress string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpdateStatus moves an order to status. Cancelled orders are final;
	// moving to cancelled restores stock.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	// Cancel cancels a pending order and restores stock.
	Cancel(ctx context.Context, id string) (*domain.Order, error)
}
