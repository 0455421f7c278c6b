package ports

import (
	"context"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// InvoiceRepository defines persistence for invoices. The unique index on
// invoice_number is the backstop for the number allocator: a concurrent
// writer that loses the allocation race gets domain.ErrInvoiceNumberTaken.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	// FindLatest returns the most recently created invoice, or
	// domain.ErrInvoiceNotFound when the collection is empty.
	FindLatest(ctx context.Context) (*domain.Invoice, error)
	// List returns all invoices sorted by creation time descending.
	List(ctx context.Context) ([]domain.Invoice, error)
	// Update overwrites the mutable fields; the invoice number is immutable.
	Update(ctx context.Context, id string, invoice *domain.Invoice) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) error
}
