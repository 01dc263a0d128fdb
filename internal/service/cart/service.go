package cart

import (
	"context"
	"errors"
	"fmt"

	"shoplab/internal/domain"
	cartrepo "shoplab/internal/repository/cart"
)

// maxLineQuantity bounds a single cart line.
const maxLineQuantity = 1000

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity, maxQuantity int) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.Get(ctx, userID)
}

// AddItem adds quantity to the caller's line for productID. The merged
// line stays within both maxLineQuantity and the product's stock.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
		}
		return nil, err
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.Name)
	}

	limit := min(maxLineQuantity, product.Stock)
	item, err := s.repo.AddItem(ctx, userID, productID, quantity, limit)
	if errors.Is(err, cartrepo.ErrLineLimit) {
		if product.Stock <= maxLineQuantity {
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, product.Name)
		}
		return nil, fmt.Errorf("%w: a cart line may hold at most %d units", domain.ErrValidation, maxLineQuantity)
	}
	return item, err
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	var line *domain.CartItem
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			line = &cart.Items[i]
			break
		}
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	if quantity > line.Stock {
		return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientStock, line.ProductName)
	}
	return s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) error {
	return s.repo.RemoveItem(ctx, userID, itemID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}

func checkQuantity(q int) error {
	if q < 1 || q > maxLineQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrValidation, maxLineQuantity)
	}
	return nil
}
