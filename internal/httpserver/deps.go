package httpserver

import (
	"context"

	"shoplab/internal/domain"
	authsvc "shoplab/internal/service/auth"
	productsvc "shoplab/internal/service/product"
	reviewsvc "shoplab/internal/service/review"
	usersvc "shoplab/internal/service/user"
)

// Deps groups the services the router dispatches to.
type Deps struct {
	AuthSvc    AuthService
	UserSvc    UserService
	ProductSvc ProductService
	CartSvc    CartService
	OrderSvc   OrderService
	ReviewSvc  ReviewService
	AdminSvc   AdminService

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string
}

type AuthService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*authsvc.LoginResult, error)
	Authenticate(token string) (*authsvc.Claims, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type UserService interface {
	Lookup(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, actor *domain.User) ([]domain.User, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	Update(ctx context.Context, actor *domain.User, id string, in usersvc.ProfileInput) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	SetRole(ctx context.Context, actor *domain.User, id, role string) (*domain.User, error)
}

type ProductService interface {
	List(ctx context.Context, in productsvc.ListInput) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, actor *domain.User, in productsvc.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, actor *domain.User, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type OrderService interface {
	Place(ctx context.Context, actor *domain.User, shippingAddress string) (*domain.Order, error)
	List(ctx context.Context, actor *domain.User) ([]domain.Order, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actor *domain.User, id string, status domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, actor *domain.User, id string) (*domain.Order, error)
}

type ReviewService interface {
	Create(ctx context.Context, actor *domain.User, in reviewsvc.Input) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	Update(ctx context.Context, actor *domain.User, id string, rating int, comment string) (*domain.Review, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

type AdminService interface {
	Stats(ctx context.Context, actor *domain.User) (domain.Stats, error)
	Orders(ctx context.Context, actor *domain.User, status string) ([]domain.Order, error)
}
