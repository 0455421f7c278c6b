package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

type stubClientRepo struct {
	mu      sync.Mutex
	seq     int
	clients []*domain.Client
}

func (r *stubClientRepo) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.ClientNumber == client.ClientNumber {
			return nil, domain.ErrClientNumberTaken
		}
	}
	r.seq++
	stored := *client
	stored.ID = fmt.Sprintf("client_%d", r.seq)
	r.clients = append(r.clients, &stored)
	clone := stored
	return &clone, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) List(_ context.Context) ([]domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, id string, client *domain.Client) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.clients {
		if stored.ID == id {
			createdAt := stored.CreatedAt
			*stored = *client
			stored.ID = id
			stored.CreatedAt = createdAt
			clone := *stored
			return &clone, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.clients {
		if c.ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return domain.ErrClientNotFound
}

func TestClientService_Create(t *testing.T) {
	svc := NewClientService(&stubClientRepo{})

	created, err := svc.Create(context.Background(), ports.ClientInput{
		Name:         "  Supermarché du Nord ",
		ClientNumber: " C-17 ",
		Address:      "Rue de Bizerte",
		MF:           "1234567/A",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Supermarché du Nord" || created.ClientNumber != "C-17" {
		t.Errorf("fields not trimmed: %q / %q", created.Name, created.ClientNumber)
	}
	if created.CreatedAt.IsZero() {
		t.Errorf("creation time not set")
	}
}

func TestClientService_Create_DuplicateNumber(t *testing.T) {
	svc := NewClientService(&stubClientRepo{})

	input := ports.ClientInput{Name: "Supermarché du Nord", ClientNumber: "C-17"}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("create: %v", err)
	}
	input.Name = "Épicerie Centrale"
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrClientNumberTaken) {
		t.Fatalf("expected ErrClientNumberTaken, got %v", err)
	}
}

func TestClientService_UpdateAndDelete(t *testing.T) {
	svc := NewClientService(&stubClientRepo{})

	created, err := svc.Create(context.Background(), ports.ClientInput{Name: "Supermarché du Nord", ClientNumber: "C-17"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, ports.ClientInput{Name: "Épicerie Centrale", ClientNumber: "C-17"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Épicerie Centrale" {
		t.Errorf("name not updated: %q", updated.Name)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}
