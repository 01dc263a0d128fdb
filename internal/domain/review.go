package domain

import "time"

type Review struct {
	ID        string
	UserID    string
	ProductID string
	Rating    int
	Comment   string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats summarises the store for the admin dashboard.
type Stats struct {
	Users        int64
	Products     int64
	Orders       int64
	RevenueCents int64
}
