package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"shoplab/internal/domain"
	orderrepo "shoplab/internal/repository/order"
)

const (
	placeAttempts   = 3
	maxAddressBytes = 500
)

type Service struct {
	repo    orderrepo.Repository
	logger  *log.Logger
	backoff time.Duration
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger, backoff: 25 * time.Millisecond}
}

// Place checks out the actor's cart. The total is always computed from
// stored prices; lock conflicts are retried a bounded number of times.
func (s *Service) Place(ctx context.Context, actor *domain.User, shippingAddress string) (*domain.Order, error) {
	addr := strings.TrimSpace(shippingAddress)
	if addr == "" {
		return nil, fmt.Errorf("%w: shipping_address required", domain.ErrValidation)
	}
	if len(addr) > maxAddressBytes {
		return nil, fmt.Errorf("%w: shipping_address too long", domain.ErrValidation)
	}

	var lastErr error
	for attempt := 1; attempt <= placeAttempts; attempt++ {
		order, err := s.repo.Place(ctx, actor.ID, addr)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Printf("order service: place conflict user=%s attempt=%d err=%v", actor.ID, attempt, err)
		if attempt == placeAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

func (s *Service) List(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// Get returns an order visible to the actor. Orders of other users are
// reported as not found.
func (s *Service) Get(ctx context.Context, actor *domain.User, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.ID && !actor.IsAdmin() {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor *domain.User, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	o, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order service: order=%s status=%s by=%s", id, status, actor.ID)
	return o, nil
}

func (s *Service) Cancel(ctx context.Context, actor *domain.User, id string) (*domain.Order, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	o, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order service: order=%s cancelled by=%s", id, actor.ID)
	return o, nil
}
