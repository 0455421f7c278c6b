package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fromagerie-alioui/invoicing-api/internal/api/metrics"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
	"github.com/fromagerie-alioui/invoicing-api/internal/render"
)

// maxAllocationAttempts bounds the optimistic-retry loop for invoice number
// allocation. Each attempt re-reads the latest invoice, so a retry only
// happens when a concurrent create won the race for the same number.
const maxAllocationAttempts = 3

// InvoiceService implements invoice management, sequential number allocation
// and PDF production.
type InvoiceService struct {
	repo     ports.InvoiceRepository
	renderer ports.PDFRenderer
	cache    ports.PDFCache
	builder  *render.HTMLBuilder
	logger   zerolog.Logger
}

// NewInvoiceService wires the invoice service. cache may be nil, in which
// case every PDF request renders from scratch.
func NewInvoiceService(repo ports.InvoiceRepository, renderer ports.PDFRenderer, cache ports.PDFCache, builder *render.HTMLBuilder, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{repo: repo, renderer: renderer, cache: cache, builder: builder, logger: logger}
}

func (s *InvoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	return s.repo.List(ctx)
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.repo.FindByID(ctx, id)
}

// Create assigns the next sequential invoice number and persists the record.
// Number allocation is "last plus one" guarded by the unique index on
// invoice_number: when two requests race for the same number, the loser's
// insert is rejected and the whole allocate-insert cycle is retried.
func (s *InvoiceService) Create(ctx context.Context, input ports.InvoiceInput) (*domain.Invoice, error) {
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		number, err := s.nextInvoiceNumber(ctx)
		if err != nil {
			return nil, err
		}

		invoice := invoiceFromInput(input)
		invoice.InvoiceNumber = number
		invoice.CreatedAt = time.Now().UTC()
		invoice.UpdatedAt = invoice.CreatedAt

		created, err := s.repo.Create(ctx, invoice)
		if err != nil {
			if errors.Is(err, domain.ErrInvoiceNumberTaken) {
				metrics.InvoiceNumberConflictsTotal.Inc()
				s.logger.Warn().Str("invoice_number", number).Int("attempt", attempt).Msg("invoice number already taken, reallocating")
				continue
			}
			return nil, err
		}

		metrics.InvoicesCreatedTotal.Inc()
		s.logger.Info().Str("invoice_number", created.InvoiceNumber).Msg("invoice created")
		return created, nil
	}

	return nil, domain.ErrInvoiceNumberContention
}

// Update replaces the mutable fields of an invoice. The invoice number and
// creation time survive unchanged regardless of the request payload.
func (s *InvoiceService) Update(ctx context.Context, id string, input ports.InvoiceInput) (*domain.Invoice, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invoice := invoiceFromInput(input)
	invoice.InvoiceNumber = existing.InvoiceNumber
	invoice.CreatedAt = existing.CreatedAt
	invoice.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, id, invoice)
}

func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// RenderPDF produces the invoice as PDF bytes plus the suggested download
// filename. A missing invoice fails before the rendering engine is touched.
func (s *InvoiceService) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("facture-%s.pdf", invoice.InvoiceNumber)

	// The cache key embeds the update time, so edits naturally invalidate.
	cacheKey := fmt.Sprintf("pdf:%s:%d", invoice.ID, invoice.UpdatedAt.Unix())
	if s.cache != nil {
		pdf, ok, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("pdf cache lookup failed")
		}
		if ok {
			metrics.PDFCacheTotal.WithLabelValues("hit").Inc()
			return pdf, filename, nil
		}
		metrics.PDFCacheTotal.WithLabelValues("miss").Inc()
	}

	html, err := s.builder.BuildInvoice(invoice, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("build invoice document: %w", err)
	}

	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return nil, "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, pdf); err != nil {
			s.logger.Warn().Err(err).Msg("pdf cache store failed")
		}
	}
	return pdf, filename, nil
}

// nextInvoiceNumber derives the next number from the most recently created
// invoice. An unparseable latest number aborts the create: defaulting here
// would issue a duplicate or out-of-sequence number.
func (s *InvoiceService) nextInvoiceNumber(ctx context.Context) (string, error) {
	latest, err := s.repo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return domain.FormatInvoiceNumber(1), nil
		}
		return "", err
	}

	ordinal, err := domain.ParseInvoiceOrdinal(latest.InvoiceNumber)
	if err != nil {
		return "", err
	}
	return domain.FormatInvoiceNumber(ordinal + 1), nil
}

func invoiceFromInput(input ports.InvoiceInput) *domain.Invoice {
	deliveryPerson := input.DeliveryPerson
	if deliveryPerson == "" {
		deliveryPerson = domain.DefaultDeliveryPerson
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	items := make([]domain.InvoiceItem, len(input.Items))
	for i, it := range input.Items {
		items[i] = domain.InvoiceItem{
			Designation: it.Designation,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}

	invoice := &domain.Invoice{
		ClientName:     input.ClientName,
		ClientNumber:   input.ClientNumber,
		ClientAddress:  input.ClientAddress,
		ClientMF:       input.ClientMF,
		DeliveryPerson: deliveryPerson,
		Date:           date,
		Items:          items,
		TotalRemise:    input.TotalRemise,
	}
	invoice.Recalculate()
	return invoice
}
