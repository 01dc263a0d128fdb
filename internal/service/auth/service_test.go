package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"shoplab/internal/domain"
	tokenrepo "shoplab/internal/repository/token"

	"github.com/golang-jwt/jwt/v5"
)

// memoryUsers is a lightweight in-memory user repository for tests.
type memoryUsers struct {
	byID map[string]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]domain.User)}
}

func (r *memoryUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	u.ID = "user-" + u.Username
	r.byID[u.ID] = u
	return &u, nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUsers) List(context.Context) ([]domain.User, error) { return nil, nil }

func (r *memoryUsers) UpdateProfile(context.Context, string, domain.ProfileUpdate) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (r *memoryUsers) SetRole(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (r *memoryUsers) SetPassword(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	r.byID[id] = u
	return nil
}

func (r *memoryUsers) Delete(context.Context, string) error { return nil }

type memoryResets struct {
	tokens map[string]tokenrepo.ResetToken
}

func newMemoryResets() *memoryResets {
	return &memoryResets{tokens: make(map[string]tokenrepo.ResetToken)}
}

func (r *memoryResets) Create(_ context.Context, t tokenrepo.ResetToken) error {
	r.tokens[t.TokenHash] = t
	return nil
}

func (r *memoryResets) Consume(_ context.Context, hash string, now time.Time) (string, error) {
	t, ok := r.tokens[hash]
	if !ok || t.UsedAt != nil || !t.ExpiresAt.After(now) {
		return "", domain.ErrNotFound
	}
	t.UsedAt = &now
	r.tokens[hash] = t
	return t.UserID, nil
}

func (r *memoryResets) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

type captureMailer struct {
	to, subject, body string
	sent              int
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	m.sent++
	return nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService() (*Service, *memoryUsers, *captureMailer) {
	users := newMemoryUsers()
	mailer := &captureMailer{}
	svc := New(users, newMemoryResets(), NewTokenManager(testSecret, "shoplab", time.Hour), mailer, Options{BaseURL: "http://shop.test/"})
	return svc, users, mailer
}

func TestRegister_AssignsUserRoleAndHashes(t *testing.T) {
	svc, _, _ := newTestService()
	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    " Alice@Example.com ",
		Password: "Abcdefg1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %q", u.Role)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "Abcdefg1" {
		t.Fatalf("password was not hashed")
	}
}

func TestRegister_RejectsWeakPasswordAndDuplicates(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "weak"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "b@example.com", Password: "Abcdefg1"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPasswordLengthAboveBcryptLimit(t *testing.T) {
	svc, _, mailer := newTestService()
	ctx := context.Background()
	long := "Aa1" + strings.Repeat("x", 80)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: long})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for %d byte password, got %v", len(long), err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "a@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	raw := tokenFromMail(t, mailer.body)
	if err := svc.ResetPassword(ctx, raw, long); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation on reset, got %v", err)
	}
	if err := svc.ResetPassword(ctx, raw, "Newpass12"); err != nil {
		t.Fatalf("rejected password must not consume the token: %v", err)
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, errUnknown := svc.Login(ctx, "nobody", "Abcdefg1")
	_, errWrong := svc.Login(ctx, "alice", "Wrongpass1")
	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Fatalf("expected uniform ErrInvalidCredentials, got %v / %v", errUnknown, errWrong)
	}

	res, err := svc.Login(ctx, "alice", " Abcdefg1 ")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.Authenticate(res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.UserID != res.User.ID || claims.Role != domain.RoleUser || claims.Username != "alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, users, mailer := newTestService()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "Abcdefg1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "unknown@example.com"); err != nil {
		t.Fatalf("ForgotPassword unknown: %v", err)
	}
	if mailer.sent != 0 {
		t.Fatalf("expected no mail for unknown email")
	}

	if err := svc.ForgotPassword(ctx, "A@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if mailer.sent != 1 || mailer.to != "a@example.com" {
		t.Fatalf("expected reset mail to a@example.com, got %+v", mailer)
	}
	raw := tokenFromMail(t, mailer.body)

	if err := svc.ResetPassword(ctx, raw, "Newpass12"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if users.byID[u.ID].PasswordHash == u.PasswordHash {
		t.Fatalf("password hash not updated")
	}
	if err := svc.ResetPassword(ctx, raw, "Another12"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected token to be single use, got %v", err)
	}
	if _, err := svc.Login(ctx, "alice", "Newpass12"); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	svc, _, mailer := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@example.com", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "a@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	raw := tokenFromMail(t, mailer.body)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := svc.ResetPassword(ctx, raw, "Newpass12"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}
}

func tokenFromMail(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, "http://shop.test/reset-password?token=")
	if idx < 0 {
		t.Fatalf("reset link missing from mail body:\n%s", body)
	}
	link := strings.Fields(body[idx:])[0]
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	return u.Query().Get("token")
}

func TestTokenManager_RejectsTampering(t *testing.T) {
	m := NewTokenManager(testSecret, "shoplab", time.Minute)
	tok, _, err := m.Issue(domain.User{ID: "u1", Username: "alice", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokenManager("another-secret-another-secret-xx", "shoplab", time.Minute).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected wrong secret rejection, got %v", err)
	}
	if _, err := NewTokenManager(testSecret, "other-issuer", time.Minute).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected wrong issuer rejection, got %v", err)
	}

	expired := NewTokenManager(testSecret, "shoplab", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := expired.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token rejection, got %v", err)
	}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: "u1",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shoplab",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := forged.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign forged: %v", err)
	}
	if _, err := m.Parse(s); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected HS512 token rejection, got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1", Role: domain.RoleAdmin})
	ns, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Parse(ns); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected alg=none rejection, got %v", err)
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "shoplab"}})
	es, _ := noExp.SignedString([]byte(testSecret))
	if _, err := m.Parse(es); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}
