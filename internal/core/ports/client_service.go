package ports

import (
	"context"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// ClientInput carries the fields for creating or replacing a client record.
type ClientInput struct {
	Name         string
	ClientNumber string
	Address      string
	MF           string
}

// ClientService implements client record management.
type ClientService interface {
	List(ctx context.Context) ([]domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, input ClientInput) (*domain.Client, error)
	Update(ctx context.Context, id string, input ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}
