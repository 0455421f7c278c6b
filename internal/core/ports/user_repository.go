package ports

import (
	"context"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// UserUpdate carries the mutable user fields for an admin update. Nil fields
// are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Role     *domain.Role
	Active   *bool
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByLogin matches the identifier against both username and email.
	FindByLogin(ctx context.Context, usernameOrEmail string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
