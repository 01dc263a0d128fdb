package product

import (
	"strings"
	"testing"

	"shoplab/internal/domain"
)

func TestBuildListQuery_NoFilters(t *testing.T) {
	q, args := buildListQuery(domain.ProductFilter{})
	if strings.Contains(q, "WHERE") {
		t.Fatalf("expected no WHERE clause, got %s", q)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildListQuery_SearchIsParameterized(t *testing.T) {
	injection := `' OR 1=1 --`
	q, args := buildListQuery(domain.ProductFilter{Search: injection})
	if strings.Contains(q, injection) {
		t.Fatalf("search text leaked into SQL: %s", q)
	}
	if len(args) != 1 || args[0] != "%"+injection+"%" {
		t.Fatalf("unexpected args %v", args)
	}
	if !strings.Contains(q, "name ILIKE $1") || !strings.Contains(q, "description ILIKE $1") {
		t.Fatalf("expected both columns bound to $1: %s", q)
	}
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	min, max := int64(100), int64(5000)
	q, args := buildListQuery(domain.ProductFilter{
		Search:        "mug",
		Category:      "kitchen",
		MinPriceCents: &min,
		MaxPriceCents: &max,
	})
	for _, want := range []string{"category = $2", "price_cents >= $3", "price_cents <= $4"} {
		if !strings.Contains(q, want) {
			t.Fatalf("expected %q in %s", want, q)
		}
	}
	if len(args) != 4 || args[1] != "kitchen" || args[2] != min || args[3] != max {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escape %q", got)
	}
}
