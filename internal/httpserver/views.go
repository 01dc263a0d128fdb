package httpserver

import (
	"time"

	"shoplab/internal/domain"
)

// JSON views. Money is rendered as a two-decimal string; password hashes
// and full card data never appear here.

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Card      string    `json:"credit_card,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u domain.User) userView {
	v := userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
	}
	if u.CardLast4 != "" {
		v.Card = "**** **** **** " + u.CardLast4
	}
	return v
}

func toUserViews(users []domain.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out
}

type productView struct {
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

func toProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       domain.FormatCents(p.PriceCents),
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

type cartItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `json:"quantity"`
	Stock     int    `json:"stock"`
	LineTotal string `json:"line_total"`
}

type cartView struct {
	Items []cartItemView `json:"items"`
	Count int            `json:"count"`
	Total string         `json:"total"`
}

func toCartItemView(it domain.CartItem) cartItemView {
	return cartItemView{
		ID:        it.ID,
		ProductID: it.ProductID,
		Name:      it.ProductName,
		Price:     domain.FormatCents(it.PriceCents),
		ImageURL:  it.ImageURL,
		Quantity:  it.Quantity,
		Stock:     it.Stock,
		LineTotal: domain.FormatCents(it.LineTotalCents()),
	}
}

func toCartView(c domain.Cart) cartView {
	items := make([]cartItemView, 0, len(c.Items))
	count := 0
	for _, it := range c.Items {
		items = append(items, toCartItemView(it))
		count += it.Quantity
	}
	return cartView{Items: items, Count: count, Total: domain.FormatCents(c.TotalCents())}
}

type orderItemView struct {
	ID        string  `json:"id"`
	ProductID *string `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Total     string  `json:"total"`
}

type orderView struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Username        string          `json:"username,omitempty"`
	Email           string          `json:"email,omitempty"`
	Total           string          `json:"total"`
	ShippingAddress string          `json:"shipping_address"`
	Status          string          `json:"status"`
	Items           []orderItemView `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toOrderView(o domain.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductName,
			ImageURL:  it.ImageURL,
			Quantity:  it.Quantity,
			UnitPrice: domain.FormatCents(it.UnitPriceCents),
			Total:     domain.FormatCents(it.TotalCents()),
		})
	}
	return orderView{
		ID:              o.ID,
		UserID:          o.UserID,
		Username:        o.Username,
		Email:           o.Email,
		Total:           domain.FormatCents(o.TotalCents),
		ShippingAddress: o.ShippingAddress,
		Status:          string(o.Status),
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderViews(orders []domain.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderView(o))
	}
	return out
}

type reviewView struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReviewView(r domain.Review) reviewView {
	return reviewView{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Username:  r.Username,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type statsView struct {
	Users    int64  `json:"users"`
	Products int64  `json:"products"`
	Orders   int64  `json:"orders"`
	Revenue  string `json:"revenue"`
}
