package product

import (
	"context"
	"errors"
	"testing"

	"shoplab/internal/domain"
)

type stubRepo struct {
	lastFilter domain.ProductFilter
	lastPatch  domain.ProductPatch
	created    []domain.Product
}

func (r *stubRepo) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	r.lastFilter = f
	return []domain.Product{{ID: "p1", Name: "Mug", PriceCents: 1299}}, nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if id != "p1" {
		return nil, domain.ErrNotFound
	}
	return &domain.Product{ID: "p1"}, nil
}

func (r *stubRepo) Categories(context.Context) ([]string, error) {
	return []string{"kitchen"}, nil
}

func (r *stubRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = "new"
	r.created = append(r.created, p)
	return &p, nil
}

func (r *stubRepo) Update(_ context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.lastPatch = patch
	return &domain.Product{ID: id}, nil
}

func (r *stubRepo) Delete(context.Context, string) error { return nil }

func (r *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

var (
	admin    = &domain.User{ID: "a", Role: domain.RoleAdmin}
	customer = &domain.User{ID: "c", Role: domain.RoleUser}
)

func TestList_ParsesPriceFilters(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	if _, err := svc.List(context.Background(), ListInput{Search: " mug ", MinPrice: "5", MaxPrice: "20.50"}); err != nil {
		t.Fatalf("List: %v", err)
	}
	f := repo.lastFilter
	if f.Search != "mug" || f.MinPriceCents == nil || *f.MinPriceCents != 500 || f.MaxPriceCents == nil || *f.MaxPriceCents != 2050 {
		t.Fatalf("unexpected filter %+v", f)
	}

	if _, err := svc.List(context.Background(), ListInput{MinPrice: "abc"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad price, got %v", err)
	}
	if _, err := svc.List(context.Background(), ListInput{MinPrice: "30", MaxPrice: "10"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for inverted range, got %v", err)
	}
}

func TestCreate_AdminOnlyAndValidated(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, customer, CreateInput{Name: "Mug", Price: "1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, CreateInput{Name: " ", Price: "1"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, CreateInput{Name: "Mug", Price: "1", Stock: -1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative stock, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, CreateInput{Name: "Mug", Price: "1", Stock: domain.MaxStock + 1}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for stock past the column range, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("rejected input reached the repository")
	}
	p, err := svc.Create(ctx, admin, CreateInput{Name: "Mug", Price: "12.99", Stock: 3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.PriceCents != 1299 || p.Stock != 3 {
		t.Fatalf("unexpected product %+v", p)
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	price := "7.5"
	if _, err := svc.Update(context.Background(), admin, "p1", UpdateInput{Price: &price}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.lastPatch.PriceCents == nil || *repo.lastPatch.PriceCents != 750 {
		t.Fatalf("unexpected patch %+v", repo.lastPatch)
	}
	if repo.lastPatch.Name != nil || repo.lastPatch.Stock != nil {
		t.Fatalf("unset fields leaked into patch %+v", repo.lastPatch)
	}
	if err := svc.Delete(context.Background(), customer, "p1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
}

func TestUpdate_StockRange(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)
	ctx := context.Background()

	for _, stock := range []int{-1, domain.MaxStock + 1} {
		if _, err := svc.Update(ctx, admin, "p1", UpdateInput{Stock: &stock}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("stock %d: expected ErrValidation, got %v", stock, err)
		}
	}
	stock := domain.MaxStock
	if _, err := svc.Update(ctx, admin, "p1", UpdateInput{Stock: &stock}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.lastPatch.Stock == nil || *repo.lastPatch.Stock != domain.MaxStock {
		t.Fatalf("unexpected patch %+v", repo.lastPatch)
	}
}
