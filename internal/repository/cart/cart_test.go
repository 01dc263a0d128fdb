package cart

import (
	"context"
	"errors"
	"testing"

	"shoplab/internal/dbtest"
	"shoplab/internal/domain"
)

func TestPostgres_AddAccumulatesAndTotals(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)

	userID := dbtest.InsertUser(t, pool, "alice")
	mug := dbtest.InsertProduct(t, pool, "Mug", 1000, 5)
	lamp := dbtest.InsertProduct(t, pool, "Lamp", 250, 5)

	repo := NewPostgres(pool, nil)

	first, err := repo.AddItem(ctx, userID, mug, 1, 1000)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	second, err := repo.AddItem(ctx, userID, mug, 2, 1000)
	if err != nil {
		t.Fatalf("AddItem again: %v", err)
	}
	if second.ID != first.ID || second.Quantity != 3 {
		t.Fatalf("expected merged line with qty 3, got %+v", second)
	}
	if _, err := repo.AddItem(ctx, userID, lamp, 2, 1000); err != nil {
		t.Fatalf("AddItem lamp: %v", err)
	}

	cart, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if cart.TotalCents() != 3500 {
		t.Fatalf("expected total 3500, got %d", cart.TotalCents())
	}
}

func TestPostgres_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)

	alice := dbtest.InsertUser(t, pool, "alice")
	bob := dbtest.InsertUser(t, pool, "bob")
	mug := dbtest.InsertProduct(t, pool, "Mug", 1000, 5)

	repo := NewPostgres(pool, nil)
	item, err := repo.AddItem(ctx, alice, mug, 1, 1000)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if _, err := repo.UpdateQuantity(ctx, bob, item.ID, 4); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating another user's line, got %v", err)
	}
	if err := repo.RemoveItem(ctx, bob, item.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound removing another user's line, got %v", err)
	}

	updated, err := repo.UpdateQuantity(ctx, alice, item.ID, 4)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if updated.Quantity != 4 {
		t.Fatalf("unexpected quantity %d", updated.Quantity)
	}

	if err := repo.Clear(ctx, alice); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	cart, err := repo.Get(ctx, alice)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
	}
}

func TestPostgres_AddUnknownProduct(t *testing.T) {
	pool := dbtest.Pool(t)
	userID := dbtest.InsertUser(t, pool, "alice")

	repo := NewPostgres(pool, nil)
	_, err := repo.AddItem(context.Background(), userID, "00000000-0000-0000-0000-000000000000", 1, 1000)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_AddItemRespectsLineLimit(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)

	userID := dbtest.InsertUser(t, pool, "alice")
	mug := dbtest.InsertProduct(t, pool, "Mug", 1000, 5000)

	repo := NewPostgres(pool, nil)

	if _, err := repo.AddItem(ctx, userID, mug, 1000, 1000); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := repo.AddItem(ctx, userID, mug, 1000, 1000); !errors.Is(err, ErrLineLimit) {
			t.Fatalf("add %d: expected ErrLineLimit, got %v", i, err)
		}
	}
	if _, err := repo.AddItem(ctx, userID, mug, 1, 1000); !errors.Is(err, ErrLineLimit) {
		t.Fatalf("expected ErrLineLimit for one more unit, got %v", err)
	}

	cart, err := repo.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1000 {
		t.Fatalf("expected a single line at quantity 1000, got %+v", cart.Items)
	}

	lamp := dbtest.InsertProduct(t, pool, "Lamp", 250, 3)
	if _, err := repo.AddItem(ctx, userID, lamp, 2, 3); err != nil {
		t.Fatalf("AddItem lamp: %v", err)
	}
	if _, err := repo.AddItem(ctx, userID, lamp, 2, 3); !errors.Is(err, ErrLineLimit) {
		t.Fatalf("expected ErrLineLimit past stock bound, got %v", err)
	}
	if item, err := repo.AddItem(ctx, userID, lamp, 1, 3); err != nil || item.Quantity != 3 {
		t.Fatalf("expected line to reach exactly 3, got %+v err=%v", item, err)
	}
}
