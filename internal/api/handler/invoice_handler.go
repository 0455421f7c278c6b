package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

type invoiceItemRequest struct {
	Designation string  `json:"designation" validate:"required"`
	Quantity    float64 `json:"quantity"    validate:"gte=0"`
	UnitPrice   float64 `json:"unitPrice"   validate:"gte=0"`
	// TotalPrice is accepted for compatibility but ignored; the server
	// recomputes every line total.
	TotalPrice float64 `json:"totalPrice"`
}

type invoiceRequest struct {
	ClientName     string               `json:"clientName"    validate:"required"`
	ClientNumber   string               `json:"clientNumber"  validate:"required"`
	ClientAddress  string               `json:"clientAddress" validate:"required"`
	ClientMF       string               `json:"clientMF"      validate:"required"`
	DeliveryPerson string               `json:"livreurNom"`
	Date           time.Time            `json:"date"`
	Items          []invoiceItemRequest `json:"items"         validate:"min=1,dive"`
	TotalRemise    float64              `json:"totalRemise"   validate:"gte=0"`
	// InvoiceNumber is accepted for compatibility but ignored; numbers are
	// always server-assigned.
	InvoiceNumber string `json:"invoiceNumber"`
}

func (r invoiceRequest) toInput() ports.InvoiceInput {
	items := make([]ports.InvoiceItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = ports.InvoiceItemInput{
			Designation: it.Designation,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return ports.InvoiceInput{
		ClientName:     r.ClientName,
		ClientNumber:   r.ClientNumber,
		ClientAddress:  r.ClientAddress,
		ClientMF:       r.ClientMF,
		DeliveryPerson: r.DeliveryPerson,
		Date:           r.Date,
		Items:          items,
		TotalRemise:    r.TotalRemise,
	}
}

// InvoiceHandler handles invoice CRUD and PDF downloads.
type InvoiceHandler struct {
	service ports.InvoiceService
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// List returns all invoices, most recent first.
//
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Invoice
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	invoices, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoices)
}

// Get returns a single invoice by id.
func (h *InvoiceHandler) Get(c echo.Context) error {
	invoice, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// Create stores a new invoice with a freshly allocated sequential number.
//
// @Summary      Create an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      invoiceRequest  true  "Invoice details (invoiceNumber ignored)"
// @Success      201   {object}  domain.Invoice
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invoice, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

// Update replaces an invoice's fields; the invoice number is immutable.
func (h *InvoiceHandler) Update(c echo.Context) error {
	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invoice, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// Delete removes an invoice.
func (h *InvoiceHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Invoice deleted successfully"})
}

// PDF streams the invoice rendered as a PDF document.
//
// @Summary      Download an invoice as PDF
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice id"
// @Success      200  {file}    binary
// @Failure      404  {object}  map[string]string
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c echo.Context) error {
	pdf, filename, err := h.service.RenderPDF(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
