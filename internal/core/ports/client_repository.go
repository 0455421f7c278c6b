package ports

import (
	"context"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// ClientRepository defines persistence for client records.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	// List returns all clients sorted by name ascending.
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, id string, client *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}
