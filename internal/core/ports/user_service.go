package ports

import (
	"context"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// CreateUserInput carries the fields for an admin-created account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UserService implements admin-only user management. Operations that could
// lock the acting admin out of the system (self-deactivation, self-deletion)
// are rejected with domain.ErrSelfModification.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actorID, id string, update UserUpdate) (*domain.User, error)
	ResetPassword(ctx context.Context, id, newPassword string) error
	Delete(ctx context.Context, actorID, id string) error
}
