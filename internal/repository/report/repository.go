// Package report serves read-only aggregate queries for the admin area.
// It runs on database/sql so queries can be exercised without a server.
package report

import (
	"context"

	"shoplab/internal/domain"
)

type Repository interface {
	Stats(ctx context.Context) (domain.Stats, error)
	// ListOrders returns every order with its owner's username and email,
	// newest first. An empty status lists all orders.
	ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}
