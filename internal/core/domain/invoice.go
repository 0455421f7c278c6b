package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoiceNumberPrefix is the fixed prefix of every invoice number.
const InvoiceNumberPrefix = "BCC"

// DefaultDeliveryPerson is used when an invoice is created without one.
const DefaultDeliveryPerson = "AbdelMonaam Alioui"

var (
	ErrInvoiceNotFound         = errors.New("invoice not found")
	ErrInvoiceNumberTaken      = errors.New("invoice number already exists")
	ErrMalformedInvoiceNumber  = errors.New("malformed invoice number")
	ErrInvoiceNumberContention = errors.New("invoice number allocation conflict, retry the request")
)

// InvoiceItem is a single line on an invoice. TotalPrice is recomputed
// server-side from Quantity and UnitPrice, never trusted from the caller.
type InvoiceItem struct {
	Designation string  `json:"designation" bson:"designation"`
	Quantity    float64 `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unitPrice" bson:"unit_price"`
	TotalPrice  float64 `json:"totalPrice" bson:"total_price"`
}

// Invoice is a billing document. Client details are denormalized at creation
// time: later edits to the client record do not rewrite issued invoices.
type Invoice struct {
	ID             string        `json:"id"`
	InvoiceNumber  string        `json:"invoiceNumber"`
	ClientName     string        `json:"clientName"`
	ClientNumber   string        `json:"clientNumber"`
	ClientAddress  string        `json:"clientAddress"`
	ClientMF       string        `json:"clientMF"`
	DeliveryPerson string        `json:"livreurNom"`
	Date           time.Time     `json:"date"`
	Items          []InvoiceItem `json:"items"`
	TotalHT        float64       `json:"totalHT"`
	TotalRemise    float64       `json:"totalRemise"`
	TotalTTC       float64       `json:"totalTTC"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Recalculate overwrites every line total with quantity × unit price and
// rebuilds the aggregates: TotalHT is the sum of line totals, TotalTTC is
// TotalHT minus the discount, floored at zero. TotalRemise is kept as given.
func (inv *Invoice) Recalculate() {
	var sum float64
	for i := range inv.Items {
		inv.Items[i].TotalPrice = inv.Items[i].Quantity * inv.Items[i].UnitPrice
		sum += inv.Items[i].TotalPrice
	}
	inv.TotalHT = sum
	inv.TotalTTC = sum - inv.TotalRemise
	if inv.TotalTTC < 0 {
		inv.TotalTTC = 0
	}
}

// FormatInvoiceNumber renders an ordinal as a full invoice number: the fixed
// prefix followed by the ordinal zero-padded to at least three digits.
// Padding never truncates: ordinal 1000 yields "BCC1000".
func FormatInvoiceNumber(ordinal int) string {
	return fmt.Sprintf("%s%03d", InvoiceNumberPrefix, ordinal)
}

// ParseInvoiceOrdinal extracts the numeric ordinal from an invoice number.
// A number that does not have the expected prefix+digits shape fails with
// ErrMalformedInvoiceNumber so the caller rejects the operation instead of
// silently issuing a duplicate or out-of-sequence number.
func ParseInvoiceOrdinal(number string) (int, error) {
	suffix, ok := strings.CutPrefix(number, InvoiceNumberPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedInvoiceNumber, number)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedInvoiceNumber, number)
	}
	return n, nil
}
