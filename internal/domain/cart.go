package domain

import "time"

// CartItem joins a cart line with the product fields shown to the owner.
type CartItem struct {
	ID          string
	UserID      string
	ProductID   string
	Quantity    int
	ProductName string
	PriceCents  int64
	ImageURL    string
	Stock       int
	CreatedAt   time.Time
}

func (c CartItem) LineTotalCents() int64 {
	return c.PriceCents * int64(c.Quantity)
}

type Cart struct {
	UserID string
	Items  []CartItem
}

// TotalCents sums lines at the prices loaded with the cart.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotalCents()
	}
	return total
}
