package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

func invokeAdminOnly(t *testing.T, user *domain.User) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if user != nil {
		c.Set(userContextKey, user)
	}

	handler := AdminOnly()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return handler(c)
}

func TestAdminOnly_AdminPasses(t *testing.T) {
	err := invokeAdminOnly(t, &domain.User{ID: "user_1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
}

func TestAdminOnly_UserForbidden(t *testing.T) {
	err := invokeAdminOnly(t, &domain.User{ID: "user_2", Role: domain.RoleUser})
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", he.Code, http.StatusForbidden)
	}
}

func TestAdminOnly_UnauthenticatedRejected(t *testing.T) {
	err := invokeAdminOnly(t, nil)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", he.Code, http.StatusUnauthorized)
	}
}
