package httpserver

import (
	"context"
	"io"
	"log"
	"time"

	"shoplab/internal/domain"
	authsvc "shoplab/internal/service/auth"
	productsvc "shoplab/internal/service/product"
	reviewsvc "shoplab/internal/service/review"
	usersvc "shoplab/internal/service/user"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

const (
	userID  = "11111111-1111-1111-1111-111111111111"
	adminID = "22222222-2222-2222-2222-222222222222"
	otherID = "33333333-3333-3333-3333-333333333333"
)

type stubAuthSvc struct {
	registered *authsvc.RegisterInput
	loginErr   error
	// tokens maps bearer tokens to user ids.
	tokens map[string]string
}

func (s *stubAuthSvc) Register(_ context.Context, in authsvc.RegisterInput) (*domain.User, error) {
	s.registered = &in
	return &domain.User{ID: userID, Username: in.Username, Email: in.Email, Role: domain.RoleUser, PasswordHash: "secret-hash"}, nil
}

func (s *stubAuthSvc) Login(_ context.Context, username, _ string) (*authsvc.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &authsvc.LoginResult{
		Token:     "user-token",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &domain.User{ID: userID, Username: username, Role: domain.RoleUser},
	}, nil
}

func (s *stubAuthSvc) Authenticate(token string) (*authsvc.Claims, error) {
	id, ok := s.tokens[token]
	if !ok {
		return nil, authsvc.ErrInvalidToken
	}
	return &authsvc.Claims{UserID: id}, nil
}

func (s *stubAuthSvc) ForgotPassword(_ context.Context, _ string) error { return nil }

func (s *stubAuthSvc) ResetPassword(_ context.Context, token, _ string) error {
	if token != "good" {
		return authsvc.ErrInvalidResetToken
	}
	return nil
}

type stubUserSvc struct {
	users map[string]*domain.User
}

func (s *stubUserSvc) Lookup(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserSvc) List(_ context.Context, _ *domain.User) ([]domain.User, error) {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserSvc) Get(_ context.Context, actor *domain.User, id string) (*domain.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return s.Lookup(context.Background(), id)
}

func (s *stubUserSvc) Update(ctx context.Context, actor *domain.User, id string, _ usersvc.ProfileInput) (*domain.User, error) {
	return s.Get(ctx, actor, id)
}

func (s *stubUserSvc) Delete(ctx context.Context, actor *domain.User, id string) error {
	_, err := s.Get(ctx, actor, id)
	return err
}

func (s *stubUserSvc) SetRole(_ context.Context, _ *domain.User, id, role string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Role = role
	return &cp, nil
}

type stubProductSvc struct {
	lastList productsvc.ListInput
	created  *productsvc.CreateInput
}

func (s *stubProductSvc) List(_ context.Context, in productsvc.ListInput) ([]domain.Product, error) {
	s.lastList = in
	return []domain.Product{{ID: "p1", Name: "Lamp", PriceCents: 1999, Stock: 3}}, nil
}

func (s *stubProductSvc) Get(_ context.Context, id string) (*domain.Product, error) {
	return &domain.Product{ID: id, Name: "Lamp", PriceCents: 1999}, nil
}

func (s *stubProductSvc) Categories(_ context.Context) ([]string, error) {
	return []string{"general"}, nil
}

func (s *stubProductSvc) Create(_ context.Context, _ *domain.User, in productsvc.CreateInput) (*domain.Product, error) {
	s.created = &in
	return &domain.Product{ID: "p2", Name: in.Name}, nil
}

func (s *stubProductSvc) Update(_ context.Context, _ *domain.User, id string, _ productsvc.UpdateInput) (*domain.Product, error) {
	return &domain.Product{ID: id}, nil
}

func (s *stubProductSvc) Delete(_ context.Context, _ *domain.User, _ string) error { return nil }

type stubCartSvc struct {
	addedQty int
}

func (s *stubCartSvc) Get(_ context.Context, uid string) (*domain.Cart, error) {
	return &domain.Cart{UserID: uid, Items: []domain.CartItem{
		{ID: "i1", ProductID: "p1", Quantity: 2, PriceCents: 1000},
		{ID: "i2", ProductID: "p2", Quantity: 1, PriceCents: 250},
	}}, nil
}

func (s *stubCartSvc) AddItem(_ context.Context, uid, productID string, quantity int) (*domain.CartItem, error) {
	s.addedQty = quantity
	return &domain.CartItem{ID: "i3", UserID: uid, ProductID: productID, Quantity: quantity}, nil
}

func (s *stubCartSvc) UpdateQuantity(_ context.Context, _, _ string, _ int) (*domain.CartItem, error) {
	return nil, domain.ErrNotFound
}

func (s *stubCartSvc) RemoveItem(_ context.Context, _, _ string) error { return domain.ErrNotFound }

func (s *stubCartSvc) Clear(_ context.Context, _ string) error { return nil }

type stubOrderSvc struct {
	placeErr error
}

func (s *stubOrderSvc) Place(_ context.Context, actor *domain.User, addr string) (*domain.Order, error) {
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return &domain.Order{ID: "o1", UserID: actor.ID, TotalCents: 2000, ShippingAddress: addr, Status: domain.OrderPending}, nil
}

func (s *stubOrderSvc) List(_ context.Context, _ *domain.User) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderSvc) Get(_ context.Context, actor *domain.User, id string) (*domain.Order, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return &domain.Order{ID: id, UserID: userID, Status: domain.OrderPending}, nil
}

func (s *stubOrderSvc) UpdateStatus(_ context.Context, _ *domain.User, id string, status domain.OrderStatus) (*domain.Order, error) {
	return &domain.Order{ID: id, Status: status}, nil
}

func (s *stubOrderSvc) Cancel(ctx context.Context, actor *domain.User, id string) (*domain.Order, error) {
	return s.Get(ctx, actor, id)
}

type stubReviewSvc struct{}

func (stubReviewSvc) Create(_ context.Context, actor *domain.User, in reviewsvc.Input) (*domain.Review, error) {
	return &domain.Review{ID: "r1", ProductID: in.ProductID, UserID: actor.ID, Rating: in.Rating, Comment: in.Comment}, nil
}

func (stubReviewSvc) ListByProduct(_ context.Context, _ string) ([]domain.Review, error) {
	return []domain.Review{{ID: "r1", Rating: 5}}, nil
}

func (stubReviewSvc) Update(_ context.Context, _ *domain.User, _ string, _ int, _ string) (*domain.Review, error) {
	return nil, domain.ErrNotFound
}

func (stubReviewSvc) Delete(_ context.Context, _ *domain.User, _ string) error { return nil }

type stubAdminSvc struct{}

func (stubAdminSvc) Stats(_ context.Context, _ *domain.User) (domain.Stats, error) {
	return domain.Stats{Users: 2, Products: 3, Orders: 1, RevenueCents: 12345}, nil
}

func (stubAdminSvc) Orders(_ context.Context, _ *domain.User, _ string) ([]domain.Order, error) {
	return []domain.Order{{ID: "o1", Username: "alice", Email: "alice@example.com"}}, nil
}

type testEnv struct {
	auth     *stubAuthSvc
	users    *stubUserSvc
	products *stubProductSvc
	cart     *stubCartSvc
	orders   *stubOrderSvc
}

func newTestEnv() *testEnv {
	return &testEnv{
		auth: &stubAuthSvc{tokens: map[string]string{
			"user-token":    userID,
			"admin-token":   adminID,
			"other-token":   otherID,
			"deleted-token": "44444444-4444-4444-4444-444444444444",
		}},
		users: &stubUserSvc{users: map[string]*domain.User{
			userID:  {ID: userID, Username: "alice", Role: domain.RoleUser, CardLast4: "4242"},
			adminID: {ID: adminID, Username: "root", Role: domain.RoleAdmin},
			otherID: {ID: otherID, Username: "bob", Role: domain.RoleUser},
		}},
		products: &stubProductSvc{},
		cart:     &stubCartSvc{},
		orders:   &stubOrderSvc{},
	}
}

func (e *testEnv) deps() Deps {
	return Deps{
		AuthSvc:     e.auth,
		UserSvc:     e.users,
		ProductSvc:  e.products,
		CartSvc:     e.cart,
		OrderSvc:    e.orders,
		ReviewSvc:   stubReviewSvc{},
		AdminSvc:    stubAdminSvc{},
		CORSOrigins: []string{"http://shop.test"},
	}
}
