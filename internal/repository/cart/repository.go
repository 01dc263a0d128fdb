package cart

import (
	"context"
	"errors"

	"shoplab/internal/domain"
)

// ErrLineLimit is returned by AddItem when merging into an existing line
// would push its quantity past the caller's limit.
var ErrLineLimit = errors.New("cart line limit exceeded")

// Repository stores cart lines. Every method is scoped to the owning user;
// lines belonging to someone else behave as if they did not exist.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem inserts a line or adds quantity to the existing one. The
	// resulting quantity never exceeds maxQuantity.
	AddItem(ctx context.Context, userID, productID string, quantity, maxQuantity int) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}
