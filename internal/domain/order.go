package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              string
	UserID          string
	TotalCents      int64
	ShippingAddress string
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem

	// Populated by admin listings only.
	Username string
	Email    string
}

// OrderItem is an immutable snapshot of a cart line at checkout.
type OrderItem struct {
	ID             string
	OrderID        string
	ProductID      *string
	ProductName    string
	ImageURL       string
	Quantity       int
	UnitPriceCents int64
}

func (i OrderItem) TotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}
