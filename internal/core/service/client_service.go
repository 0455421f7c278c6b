package service

import (
	"context"
	"strings"
	"time"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

// ClientService implements client record management.
type ClientService struct {
	repo ports.ClientRepository
}

func NewClientService(repo ports.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.List(ctx)
}

func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) Create(ctx context.Context, input ports.ClientInput) (*domain.Client, error) {
	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.Client{
		Name:         strings.TrimSpace(input.Name),
		ClientNumber: strings.TrimSpace(input.ClientNumber),
		Address:      input.Address,
		MF:           input.MF,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *ClientService) Update(ctx context.Context, id string, input ports.ClientInput) (*domain.Client, error) {
	return s.repo.Update(ctx, id, &domain.Client{
		Name:         strings.TrimSpace(input.Name),
		ClientNumber: strings.TrimSpace(input.ClientNumber),
		Address:      input.Address,
		MF:           input.MF,
		UpdatedAt:    time.Now().UTC(),
	})
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
