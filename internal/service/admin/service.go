// Package admin serves the store dashboard: aggregate stats and the
// cross-user order listing.
package admin

import (
	"context"
	"fmt"

	"shoplab/internal/domain"
	reportrepo "shoplab/internal/repository/report"
)

type Service struct {
	reports reportrepo.Repository
}

func New(reports reportrepo.Repository) *Service {
	return &Service{reports: reports}
}

func (s *Service) Stats(ctx context.Context, actor *domain.User) (domain.Stats, error) {
	if !actor.IsAdmin() {
		return domain.Stats{}, domain.ErrForbidden
	}
	return s.reports.Stats(ctx)
}

func (s *Service) Orders(ctx context.Context, actor *domain.User, status string) ([]domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	st := domain.OrderStatus(status)
	if status != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	return s.reports.ListOrders(ctx, st)
}
