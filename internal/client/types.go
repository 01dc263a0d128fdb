package client

import "time"

// Money fields are two-decimal strings as rendered by the server.

type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	CreditCard string    `json:"credit_card,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `json:"quantity"`
	Stock     int    `json:"stock"`
	LineTotal string `json:"line_total"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Total string     `json:"total"`
}

type OrderItem struct {
	ID        string  `json:"id"`
	ProductID *string `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Total     string  `json:"total"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Username        string      `json:"username,omitempty"`
	Email           string      `json:"email,omitempty"`
	Total           string      `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Stats struct {
	Users    int64  `json:"users"`
	Products int64  `json:"products"`
	Orders   int64  `json:"orders"`
	Revenue  string `json:"revenue"`
}
