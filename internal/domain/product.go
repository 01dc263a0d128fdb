package domain

import "time"

type Product struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	Category    string
	ImageURL    string
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFilter narrows catalog listings. Zero values mean no filter.
type ProductFilter struct {
	Search        string
	Category      string
	MinPriceCents *int64
	MaxPriceCents *int64
}

// ProductPatch is a partial catalog update.
type ProductPatch struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Category    *string
	ImageURL    *string
	Stock       *int
}
