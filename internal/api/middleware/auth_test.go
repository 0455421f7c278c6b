package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

// stubAuthService only implements token verification; the other methods are
// never reached from the middleware under test.
type stubAuthService struct {
	token string
	user  *domain.User
}

func (s *stubAuthService) Register(context.Context, ports.RegisterInput) (string, *domain.User, error) {
	return "", nil, nil
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, nil
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) error {
	return nil
}

func (s *stubAuthService) VerifyToken(_ context.Context, token string) (*domain.User, error) {
	if token != s.token {
		return nil, domain.ErrInvalidCredentials
	}
	return s.user, nil
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authorization string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return c, handler(c)
}

func TestAuth_ValidToken(t *testing.T) {
	user := &domain.User{ID: "user_1", Username: "fatma", Role: domain.RoleUser, Active: true}
	mw := Auth(&stubAuthService{token: "good-token", user: user})

	c, err := invoke(t, mw, "Bearer good-token")
	if err != nil {
		t.Fatalf("middleware rejected a valid token: %v", err)
	}

	resolved, ok := CurrentUser(c)
	if !ok {
		t.Fatalf("user not injected into the request context")
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved user %q, want %q", resolved.ID, user.ID)
	}
}

func TestAuth_Rejections(t *testing.T) {
	mw := Auth(&stubAuthService{token: "good-token", user: &domain.User{ID: "user_1"}})

	cases := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"no scheme", "good-token"},
		{"wrong scheme", "Basic good-token"},
		{"unknown token", "Bearer bad-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invoke(t, mw, tc.authorization)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", he.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestAuth_CaseInsensitiveScheme(t *testing.T) {
	mw := Auth(&stubAuthService{token: "good-token", user: &domain.User{ID: "user_1"}})

	if _, err := invoke(t, mw, "bearer good-token"); err != nil {
		t.Fatalf("lowercase bearer scheme rejected: %v", err)
	}
}
