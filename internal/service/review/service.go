package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shoplab/internal/domain"
	reviewrepo "shoplab/internal/repository/review"
)

const maxCommentLength = 2000

type productGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     reviewrepo.Repository
	products productGetter
}

func New(repo reviewrepo.Repository, products productGetter) *Service {
	return &Service{repo: repo, products: products}
}

type Input struct {
	ProductID string
	Rating    int
	Comment   string
}

// Create records the actor's review. Each user may review a product once.
func (s *Service) Create(ctx context.Context, actor *domain.User, in Input) (*domain.Review, error) {
	comment, err := checkReview(in.Rating, in.Comment)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
		}
		return nil, err
	}
	rv, err := s.repo.Create(ctx, domain.Review{
		UserID:    actor.ID,
		ProductID: in.ProductID,
		Rating:    in.Rating,
		Comment:   comment,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: you have already reviewed this product", domain.ErrAlreadyExists)
	}
	return rv, err
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.repo.ListByProduct(ctx, productID)
}

// Update lets the author change rating and comment.
func (s *Service) Update(ctx context.Context, actor *domain.User, id string, rating int, comment string) (*domain.Review, error) {
	comment, err := checkReview(rating, comment)
	if err != nil {
		return nil, err
	}
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.UserID != actor.ID {
		return nil, domain.ErrNotFound
	}
	return s.repo.Update(ctx, id, rating, comment)
}

// Delete removes a review; allowed for its author and admins.
func (s *Service) Delete(ctx context.Context, actor *domain.User, id string) error {
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rv.UserID != actor.ID && !actor.IsAdmin() {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func checkReview(rating int, comment string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		return "", fmt.Errorf("%w: comment must be at most %d characters", domain.ErrValidation, maxCommentLength)
	}
	return comment, nil
}
