package ports

import (
	"context"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// RegisterInput carries the fields for self-registration. Role defaults to
// domain.RoleUser when empty.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// AuthService implements registration, login and password changes, and is
// the single place tokens are issued and verified.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	// Login accepts a username or an email as identifier. Unknown identifier
	// and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, usernameOrEmail, password string) (string, *domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// VerifyToken validates a bearer token and resolves the embedded user id
	// against the repository, so revoked or deactivated accounts are rejected
	// even while their token is formally valid.
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}
