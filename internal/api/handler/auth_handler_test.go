package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

// stubAuthService records the arguments each handler forwards.
type stubAuthService struct {
	registerInput   ports.RegisterInput
	loginIdentifier string
	loginPassword   string
	changedUserID   string
	err             error
}

func (s *stubAuthService) Register(_ context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	s.registerInput = input
	if s.err != nil {
		return "", nil, s.err
	}
	return "issued-token", &domain.User{ID: "user_1", Username: input.Username, Role: domain.RoleUser, Active: true}, nil
}

func (s *stubAuthService) Login(_ context.Context, usernameOrEmail, password string) (string, *domain.User, error) {
	s.loginIdentifier, s.loginPassword = usernameOrEmail, password
	if s.err != nil {
		return "", nil, s.err
	}
	return "issued-token", &domain.User{ID: "user_1", Username: "fatma"}, nil
}

func (s *stubAuthService) ChangePassword(_ context.Context, userID, _, _ string) error {
	s.changedUserID = userID
	return s.err
}

func (s *stubAuthService) VerifyToken(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrInvalidCredentials
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"username":"fatma","email":"fatma@example.com","password":"s3cret-pass","role":"admin"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if svc.registerInput.Role != domain.RoleAdmin {
		t.Errorf("role not forwarded: %q", svc.registerInput.Role)
	}
	body := decodeBody(t, rec)
	if body["token"] != "issued-token" {
		t.Errorf("token missing from response: %v", body)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"username":`},
		{"missing password", `{"username":"fatma","email":"fatma@example.com"}`},
		{"bad email", `{"username":"fatma","email":"not-an-email","password":"s3cret-pass"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newJSONContext(t, http.MethodPost, "/auth/register", tc.body)
			err := h.Register(c)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", he.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"fatma@example.com","password":"s3cret-pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.loginIdentifier != "fatma@example.com" || svc.loginPassword != "s3cret-pass" {
		t.Errorf("credentials not forwarded: %q / %q", svc.loginIdentifier, svc.loginPassword)
	}
}

func TestAuthHandler_Login_ServiceErrorPropagates(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"username":"fatma","password":"wrong"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected the sentinel to propagate, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(t, http.MethodGet, "/auth/me", "")
	c.Set("auth_user", &domain.User{ID: "user_1", Username: "fatma"})
	if err := h.Me(c); err != nil {
		t.Fatalf("me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(t, http.MethodGet, "/auth/me", "")
	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newJSONContext(t, http.MethodPut, "/auth/change-password",
		`{"currentPassword":"s3cret-pass","newPassword":"n3w-pass-word"}`)
	c.Set("auth_user", &domain.User{ID: "user_1"})
	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.changedUserID != "user_1" {
		t.Errorf("password changed for %q, want user_1", svc.changedUserID)
	}
}
