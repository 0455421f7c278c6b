package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users []*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	stored := *user
	stored.ID = fmt.Sprintf("user_%d", r.seq)
	r.users = append(r.users, &stored)
	clone := stored
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByLogin(_ context.Context, usernameOrEmail string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == usernameOrEmail || u.Email == usernameOrEmail {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		if update.Username != nil {
			u.Username = *update.Username
		}
		if update.Email != nil {
			u.Email = *update.Email
		}
		if update.Role != nil {
			u.Role = *update.Role
		}
		if update.Active != nil {
			u.Active = *update.Active
		}
		u.UpdatedAt = time.Now().UTC()
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

const testSecret = "test-secret"

func registeredUser(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	_, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "fatma",
		Email:    "fatma@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestAuthService_Register(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "  fatma ",
		Email:    "Fatma@Example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Errorf("expected a session token")
	}
	if user.Username != "fatma" {
		t.Errorf("username not trimmed: %q", user.Username)
	}
	if user.Email != "fatma@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("role not defaulted: %q", user.Role)
	}
	if !user.Active {
		t.Errorf("new account should be active")
	}
	if user.PasswordHash == "s3cret-pass" || strings.Contains(user.PasswordHash, "s3cret") {
		t.Errorf("password stored in the clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Errorf("stored hash does not verify the original password")
	}
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "fatma",
		Email:    "fatma@example.com",
		Password: "abc",
	})
	if !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	registeredUser(t, svc)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "fatma",
		Email:    "other@example.com",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	_, _, err = svc.Register(context.Background(), ports.RegisterInput{
		Username: "other",
		Email:    "fatma@example.com",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, 0)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "fatma",
		Email:    "fatma@example.com",
		Password: "s3cret-pass",
		Role:     domain.Role("superuser"),
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	registeredUser(t, svc)

	// Both the username and the email act as login identifier.
	for _, identifier := range []string{"fatma", "fatma@example.com"} {
		token, user, err := svc.Login(context.Background(), identifier, "s3cret-pass")
		if err != nil {
			t.Fatalf("login with %q: %v", identifier, err)
		}
		if token == "" || user == nil {
			t.Fatalf("login with %q returned empty session", identifier)
		}
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	registeredUser(t, svc)

	// Wrong password and unknown account must be indistinguishable.
	cases := []struct{ identifier, password string }{
		{"fatma", "wrong-pass"},
		{"nobody", "s3cret-pass"},
		{"", "s3cret-pass"},
		{"fatma", ""},
	}
	for _, tc := range cases {
		if _, _, err := svc.Login(context.Background(), tc.identifier, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("login(%q, %q): expected ErrInvalidCredentials, got %v", tc.identifier, tc.password, err)
		}
	}
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	user := registeredUser(t, svc)

	inactive := false
	if _, err := repo.Update(context.Background(), user.ID, ports.UserUpdate{Active: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "fatma", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for deactivated account, got %v", err)
	}
}

func TestAuthService_VerifyToken(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	user := registeredUser(t, svc)

	token, _, err := svc.Login(context.Background(), "fatma", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	verified, err := svc.VerifyToken(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.ID != user.ID {
		t.Errorf("verified user %q, want %q", verified.ID, user.ID)
	}
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	registeredUser(t, svc)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.VerifyToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("VerifyToken(%q): expected ErrInvalidCredentials, got %v", token, err)
		}
	}
}

func TestAuthService_VerifyToken_Expired(t *testing.T) {
	repo := newStubUserRepo()
	// Issue tokens that expire immediately.
	svc := NewAuthService(repo, testSecret, time.Nanosecond)
	registeredUser(t, svc)

	token, _, err := svc.Login(context.Background(), "fatma", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := svc.VerifyToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
}

func TestAuthService_VerifyToken_WrongSecret(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	registeredUser(t, svc)

	token, _, err := svc.Login(context.Background(), "fatma", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := NewAuthService(repo, "another-secret", 0)
	if _, err := other.VerifyToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for foreign signature, got %v", err)
	}
}

func TestAuthService_VerifyToken_DeactivatedAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	user := registeredUser(t, svc)

	token, _, err := svc.Login(context.Background(), "fatma", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// A token issued before deactivation stops working afterwards.
	inactive := false
	if _, err := repo.Update(context.Background(), user.ID, ports.UserUpdate{Active: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.VerifyToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials after deactivation, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	user := registeredUser(t, svc)

	if err := svc.ChangePassword(context.Background(), user.ID, "s3cret-pass", "n3w-pass-word"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "fatma", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted")
	}
	if _, _, err := svc.Login(context.Background(), "fatma", "n3w-pass-word"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, 0)
	user := registeredUser(t, svc)

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong-pass", "n3w-pass-word"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "s3cret-pass", "abc"); !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}
