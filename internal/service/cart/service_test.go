package cart

import (
	"context"
	"errors"
	"testing"

	"shoplab/internal/domain"
	cartrepo "shoplab/internal/repository/cart"
)

type stubRepo struct {
	addErr       error
	lastAddUser  string
	lastAddProd  string
	lastAddQty   int
	lastAddMax   int
	lastUpdateID string
	lastUpdQty   int
	addCalls     int
	updCalls     int
	items        []domain.CartItem
}

func (s *stubRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	return &domain.Cart{UserID: userID, Items: s.items}, nil
}

func (s *stubRepo) AddItem(_ context.Context, userID, productID string, quantity, maxQuantity int) (*domain.CartItem, error) {
	s.addCalls++
	s.lastAddMax = maxQuantity
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.lastAddUser, s.lastAddProd, s.lastAddQty = userID, productID, quantity
	return &domain.CartItem{ID: "line-1", UserID: userID, ProductID: productID, Quantity: quantity}, nil
}

func (s *stubRepo) UpdateQuantity(_ context.Context, _, itemID string, quantity int) (*domain.CartItem, error) {
	s.updCalls++
	s.lastUpdateID, s.lastUpdQty = itemID, quantity
	return &domain.CartItem{ID: itemID, Quantity: quantity}, nil
}

func (s *stubRepo) RemoveItem(context.Context, string, string) error { return nil }

func (s *stubRepo) Clear(context.Context, string) error { return nil }

type stubProducts struct {
	products map[string]domain.Product
}

func (s stubProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func newProducts() stubProducts {
	return stubProducts{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Mug", PriceCents: 1000, Stock: 5},
		"p2": {ID: "p2", Name: "Paper", PriceCents: 10, Stock: 50000},
	}}
}

func TestAddItem_Succeeds(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, newProducts())

	item, err := svc.AddItem(context.Background(), "u1", "p1", 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Quantity != 2 || repo.lastAddUser != "u1" || repo.lastAddProd != "p1" {
		t.Fatalf("unexpected add: %+v repo=%+v", item, repo)
	}
}

func TestAddItem_Validation(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, newProducts())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "p1", 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero quantity, got %v", err)
	}
	if _, err := svc.AddItem(ctx, "u1", "missing", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown product, got %v", err)
	}
	if _, err := svc.AddItem(ctx, "u1", "p1", 6); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if repo.addCalls != 0 {
		t.Fatalf("repository should not be called for rejected input")
	}
}

func TestAddItem_BoundsMergedLine(t *testing.T) {
	ctx := context.Background()

	repo := &stubRepo{}
	svc := New(repo, newProducts())
	if _, err := svc.AddItem(ctx, "u1", "p1", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if repo.lastAddMax != 5 {
		t.Fatalf("limit for low-stock product = %d, want 5", repo.lastAddMax)
	}
	if _, err := svc.AddItem(ctx, "u1", "p2", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if repo.lastAddMax != maxLineQuantity {
		t.Fatalf("limit for plentiful product = %d, want %d", repo.lastAddMax, maxLineQuantity)
	}

	repo.addErr = cartrepo.ErrLineLimit
	if _, err := svc.AddItem(ctx, "u1", "p1", 3); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock when the line would pass stock, got %v", err)
	}
	if _, err := svc.AddItem(ctx, "u1", "p2", 600); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation when the line would pass %d, got %v", maxLineQuantity, err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	repo := &stubRepo{items: []domain.CartItem{
		{ID: "line-1", ProductID: "p1", ProductName: "Mug", Quantity: 1, Stock: 5},
	}}
	svc := New(repo, newProducts())

	if _, err := svc.UpdateQuantity(context.Background(), "u1", "line-1", -3); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateQuantity(context.Background(), "u1", "line-1", 4); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if repo.lastUpdateID != "line-1" || repo.lastUpdQty != 4 {
		t.Fatalf("unexpected update %+v", repo)
	}
}

func TestUpdateQuantity_RejectsOverStock(t *testing.T) {
	repo := &stubRepo{items: []domain.CartItem{
		{ID: "line-1", ProductID: "p1", ProductName: "Mug", Quantity: 1, Stock: 5},
	}}
	svc := New(repo, newProducts())
	ctx := context.Background()

	if _, err := svc.UpdateQuantity(ctx, "u1", "line-1", 6); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, "u1", "line-9", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a line outside the cart, got %v", err)
	}
	if repo.updCalls != 0 {
		t.Fatalf("repository should not be called for rejected updates")
	}
	if _, err := svc.UpdateQuantity(ctx, "u1", "line-1", 5); err != nil {
		t.Fatalf("UpdateQuantity at stock: %v", err)
	}
}
