package product

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"shoplab/internal/domain"
	productrepo "shoplab/internal/repository/product"
)

type Service struct {
	repo   productrepo.Repository
	logger *log.Logger
}

func New(repo productrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// ListInput carries raw catalog query parameters. Prices are decimal strings.
type ListInput struct {
	Search   string
	Category string
	MinPrice string
	MaxPrice string
}

func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Product, error) {
	filter := domain.ProductFilter{
		Search:   strings.TrimSpace(in.Search),
		Category: strings.TrimSpace(in.Category),
	}
	if v := strings.TrimSpace(in.MinPrice); v != "" {
		cents, err := domain.ParsePrice(v)
		if err != nil {
			return nil, err
		}
		filter.MinPriceCents = &cents
	}
	if v := strings.TrimSpace(in.MaxPrice); v != "" {
		cents, err := domain.ParsePrice(v)
		if err != nil {
			return nil, err
		}
		filter.MaxPriceCents = &cents
	}
	if filter.MinPriceCents != nil && filter.MaxPriceCents != nil && *filter.MinPriceCents > *filter.MaxPriceCents {
		return nil, fmt.Errorf("%w: min_price exceeds max_price", domain.ErrValidation)
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

type CreateInput struct {
	Name        string
	Description string
	Price       string
	Category    string
	ImageURL    string
	Stock       int
}

func (s *Service) Create(ctx context.Context, actor *domain.User, in CreateInput) (*domain.Product, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	cents, err := domain.ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateStock(in.Stock); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, domain.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		PriceCents:  cents,
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Stock:       in.Stock,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("product service: created id=%s by=%s", p.ID, actor.ID)
	return p, nil
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *string
	Category    *string
	ImageURL    *string
	Stock       *int
}

func (s *Service) Update(ctx context.Context, actor *domain.User, id string, in UpdateInput) (*domain.Product, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	patch := domain.ProductPatch{
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
		}
		patch.Name = &name
	}
	if in.Price != nil {
		cents, err := domain.ParsePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		patch.PriceCents = &cents
	}
	if in.Stock != nil {
		if err := domain.ValidateStock(*in.Stock); err != nil {
			return nil, err
		}
		patch.Stock = in.Stock
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("product service: updated id=%s by=%s", id, actor.ID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Printf("product service: deleted id=%s by=%s", id, actor.ID)
	return nil
}
