package ports

import (
	"context"
	"time"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// InvoiceItemInput is one requested invoice line. The caller's totalPrice is
// ignored; the service recomputes it from quantity × unit price.
type InvoiceItemInput struct {
	Designation string
	Quantity    float64
	UnitPrice   float64
}

// InvoiceInput carries the fields for creating or replacing an invoice. Any
// caller-supplied invoice number is ignored on create and on update.
type InvoiceInput struct {
	ClientName     string
	ClientNumber   string
	ClientAddress  string
	ClientMF       string
	DeliveryPerson string
	Date           time.Time
	Items          []InvoiceItemInput
	TotalRemise    float64
}

// InvoiceService implements invoice management, sequential number allocation
// and PDF production.
type InvoiceService interface {
	List(ctx context.Context) ([]domain.Invoice, error)
	Get(ctx context.Context, id string) (*domain.Invoice, error)
	Create(ctx context.Context, input InvoiceInput) (*domain.Invoice, error)
	Update(ctx context.Context, id string, input InvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) error
	// RenderPDF returns the invoice rendered as PDF bytes plus the suggested
	// download filename ("facture-<number>.pdf").
	RenderPDF(ctx context.Context, id string) ([]byte, string, error)
}
