package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"shoplab/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// AdminUsername is the account created by Apply when an admin password is given.
const AdminUsername = "admin"

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
}

type productStore interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

var demoProducts = []domain.Product{
	{Name: "Laptop", Description: "14 inch ultrabook with 16GB RAM", PriceCents: 99999, Category: "electronics", ImageURL: "https://via.placeholder.com/300x200?text=Laptop", Stock: 10},
	{Name: "Wireless Mouse", Description: "Ergonomic 2.4GHz mouse", PriceCents: 2999, Category: "electronics", ImageURL: "https://via.placeholder.com/300x200?text=Mouse", Stock: 50},
	{Name: "Mechanical Keyboard", Description: "RGB keyboard with brown switches", PriceCents: 8999, Category: "electronics", ImageURL: "https://via.placeholder.com/300x200?text=Keyboard", Stock: 25},
	{Name: "Coffee Mug", Description: "Ceramic mug, 350ml", PriceCents: 1299, Category: "home", ImageURL: "https://via.placeholder.com/300x200?text=Mug", Stock: 100},
	{Name: "Desk Lamp", Description: "LED lamp with adjustable arm", PriceCents: 3499, Category: "home", ImageURL: "https://via.placeholder.com/300x200?text=Lamp", Stock: 30},
	{Name: "Cotton T-Shirt", Description: "Soft cotton tee", PriceCents: 1999, Category: "clothing", ImageURL: "https://via.placeholder.com/300x200?text=T-Shirt", Stock: 75},
	{Name: "Go Programming Book", Description: "Practical guide to Go", PriceCents: 4500, Category: "books", ImageURL: "https://via.placeholder.com/300x200?text=Book", Stock: 15},
}

// Apply inserts seed data for manual testing. It is idempotent: products are
// upserted by name and an existing admin account keeps its password.
// With an empty adminPassword no admin account is created.
func Apply(ctx context.Context, users userStore, products productStore, adminPassword string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if adminPassword == "" {
		logger.Printf("SEED_ADMIN_PASSWORD not set, skipping admin account")
	} else if err := ensureAdmin(ctx, users, adminPassword, logger); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	for _, p := range demoProducts {
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	logger.Printf("seeded %d products", len(demoProducts))
	return nil
}

func ensureAdmin(ctx context.Context, users userStore, password string, logger *log.Logger) error {
	existing, err := users.GetByUsername(ctx, AdminUsername)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			if _, err := users.SetRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
				return err
			}
			logger.Printf("promoted existing %q account to admin", AdminUsername)
		}
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	if err := domain.ValidatePassword(password); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = users.Create(ctx, domain.User{
		Username:     AdminUsername,
		Email:        "admin@example.com",
		PasswordHash: string(hashed),
		Role:         domain.RoleAdmin,
		FirstName:    "Admin",
		LastName:     "User",
	})
	if err != nil {
		return err
	}
	logger.Printf("created %q account", AdminUsername)
	return nil
}
