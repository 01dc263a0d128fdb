package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"shoplab/internal/domain"
	"shoplab/internal/mail"
	tokenrepo "shoplab/internal/repository/token"
	userrepo "shoplab/internal/repository/user"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidResetToken covers unknown, used and expired reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// Options tune the password reset flow.
type Options struct {
	ResetTTL time.Duration
	// BaseURL is prefixed to the reset link sent by mail.
	BaseURL string
	Logger  *log.Logger
}

// Service handles registration, login and password resets.
type Service struct {
	users    userrepo.Repository
	resets   tokenrepo.Repository
	tokens   *TokenManager
	mailer   mail.Mailer
	resetTTL time.Duration
	baseURL  string
	logger   *log.Logger
	now      func() time.Time
}

func New(users userrepo.Repository, resets tokenrepo.Repository, tokens *TokenManager, mailer mail.Mailer, opts Options) *Service {
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = 30 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:    users,
		resets:   resets,
		tokens:   tokens,
		mailer:   mailer,
		resetTTL: opts.ResetTTL,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		logger:   opts.Logger,
		now:      time.Now,
	}
}

// RegisterInput captures the fields accepted at signup. There is no role
// field: new accounts are always plain users.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	password := strings.TrimSpace(in.Password)
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
	})
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	password = strings.TrimSpace(password)
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same bcrypt time as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate resolves a bearer token to its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}

// ForgotPassword mails a single-use reset link when the email is known.
// It reports success either way so callers cannot enumerate accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email required", domain.ErrValidation)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	now := s.now()
	if n, err := s.resets.DeleteExpired(ctx, now); err != nil {
		s.logger.Printf("auth: purge reset tokens error=%v", err)
	} else if n > 0 {
		s.logger.Printf("auth: purged %d stale reset tokens", n)
	}

	raw, err := randomToken()
	if err != nil {
		return err
	}
	if err := s.resets.Create(ctx, tokenrepo.ResetToken{
		TokenHash: hashToken(raw),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.resetTTL),
	}); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nUse the link below to reset your password. It expires in %d minutes.\n\n%s/reset-password?token=%s\n\nIf you did not ask for this, ignore this email.",
		u.Username, int(s.resetTTL.Minutes()), s.baseURL, url.QueryEscape(raw),
	)
	if err := s.mailer.Send(u.Email, "Password reset", body); err != nil {
		s.logger.Printf("auth: send reset mail user=%s error=%v", u.ID, err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return ErrInvalidResetToken
	}
	password := strings.TrimSpace(newPassword)
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userID, err := s.resets.Consume(ctx, hashToken(rawToken), s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if err := s.users.SetPassword(ctx, userID, string(hashed)); err != nil {
		return err
	}
	s.logger.Printf("auth: password reset user=%s", userID)
	return nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummy
}
