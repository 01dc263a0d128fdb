package user

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"shoplab/internal/domain"
	userrepo "shoplab/internal/repository/user"
)

// Service applies ownership rules to account reads and writes. The actor is
// always the user loaded for the current request.
type Service struct {
	repo   userrepo.Repository
	logger *log.Logger
}

func New(repo userrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// ProfileInput holds the writable profile fields. Nil means unchanged.
type ProfileInput struct {
	Username   *string
	Email      *string
	FirstName  *string
	LastName   *string
	Phone      *string
	Address    *string
	CreditCard *string
}

// Lookup loads a user by id without access checks; used by authentication.
func (s *Service) Lookup(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	if !canAccess(actor, id) {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, actor *domain.User, id string, in ProfileInput) (*domain.User, error) {
	if !canAccess(actor, id) {
		return nil, domain.ErrNotFound
	}

	var upd domain.ProfileUpdate
	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		if err := domain.ValidateUsername(v); err != nil {
			return nil, err
		}
		upd.Username = &v
	}
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := domain.ValidateEmail(v); err != nil {
			return nil, err
		}
		upd.Email = &v
	}
	upd.FirstName = trimmed(in.FirstName)
	upd.LastName = trimmed(in.LastName)
	upd.Phone = trimmed(in.Phone)
	upd.Address = trimmed(in.Address)
	if in.CreditCard != nil {
		last4, err := CardLast4(*in.CreditCard)
		if err != nil {
			return nil, err
		}
		upd.CardLast4 = &last4
	}

	u, err := s.repo.UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("user service: profile updated id=%s by=%s", id, actor.ID)
	return u, nil
}

func (s *Service) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !canAccess(actor, id) {
		return domain.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Printf("user service: deleted id=%s by=%s", id, actor.ID)
	return nil
}

// SetRole is the only path that changes a role. Admins cannot change their
// own role, so the last admin cannot lock everyone out by accident.
func (s *Service) SetRole(ctx context.Context, actor *domain.User, id, role string) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be %q or %q", domain.ErrValidation, domain.RoleUser, domain.RoleAdmin)
	}
	if actor.ID == id {
		return nil, fmt.Errorf("%w: cannot change your own role", domain.ErrValidation)
	}
	u, err := s.repo.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("user service: role id=%s role=%s by=%s", id, role, actor.ID)
	return u, nil
}

// CardLast4 validates a card number and keeps only its last four digits.
// An empty value clears the stored card.
func CardLast4(number string) (string, error) {
	var digits []byte
	for _, r := range number {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, byte(r))
		case r == ' ' || r == '-':
		default:
			return "", fmt.Errorf("%w: card number may only contain digits", domain.ErrValidation)
		}
	}
	if len(digits) == 0 {
		return "", nil
	}
	if len(digits) < 12 || len(digits) > 19 || !luhn(digits) {
		return "", fmt.Errorf("%w: card number is invalid", domain.ErrValidation)
	}
	return string(digits[len(digits)-4:]), nil
}

func luhn(digits []byte) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func canAccess(actor *domain.User, id string) bool {
	return actor != nil && (actor.ID == id || actor.IsAdmin())
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
