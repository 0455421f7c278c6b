// Package render turns invoice records into printable documents. Stage one
// (HTMLBuilder) deterministically maps an invoice to a styled HTML document;
// stage two (ChromeRenderer) rasterizes that document to PDF.
package render

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/domain"
)

// Company is the issuer identity printed in the document header.
type Company struct {
	Name      string
	Address   string
	Phone     string
	MF        string
	LogoURL   string
	PrintedBy string
}

// DefaultCompany returns the Fromagerie Alioui letterhead.
func DefaultCompany() Company {
	return Company{
		Name:      "Fromagerie Alioui",
		Address:   "Zhena, Utique Bizerte",
		Phone:     "98136638",
		MF:        "1798066/G",
		LogoURL:   "https://i.ibb.co/ZzzzhdRN/LOGO1.png",
		PrintedBy: "Alioui Assil",
	}
}

// HTMLBuilder renders invoices into the fixed business-letter layout.
type HTMLBuilder struct {
	company Company
	tmpl    *template.Template
}

func NewHTMLBuilder(company Company) (*HTMLBuilder, error) {
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"money":  FormatCurrency,
		"frdate": FormatDate,
		"qty":    formatQuantity,
	}).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return &HTMLBuilder{company: company, tmpl: tmpl}, nil
}

type invoiceView struct {
	Company   Company
	Invoice   *domain.Invoice
	PrintedAt time.Time
}

// BuildInvoice produces the complete HTML document for an invoice. Line items
// appear in stored order; missing text fields render as empty strings.
func (b *HTMLBuilder) BuildInvoice(invoice *domain.Invoice, printedAt time.Time) (string, error) {
	var sb strings.Builder
	err := b.tmpl.Execute(&sb, invoiceView{
		Company:   b.company,
		Invoice:   invoice,
		PrintedAt: printedAt,
	})
	if err != nil {
		return "", fmt.Errorf("execute invoice template: %w", err)
	}
	return sb.String(), nil
}

// FormatCurrency renders an amount with exactly three decimals, a comma as
// decimal separator and the TND suffix: 1234.5 → "1234,500 TND". Amounts that
// are not real numbers render as "0,000 TND" rather than failing the document.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0,000 TND"
	}
	s := strconv.FormatFloat(amount, 'f', 3, 64)
	return strings.Replace(s, ".", ",", 1) + " TND"
}

// FormatDate renders a date in French day/month/year order. The zero time
// renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatQuantity(q float64) string {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return "0"
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}

const invoiceTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: ui-sans-serif, system-ui, -apple-system, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; color: #111827; margin: 0; }
    .page { max-width: 56rem; margin: 0 auto; padding: 2rem; }
    .header { border: 2px solid #000; padding: 1.25rem; margin-bottom: 1.5rem; display: flex; justify-content: space-between; align-items: flex-start; }
    .company h3 { font-size: 1.125rem; font-weight: 700; margin: 0 0 .5rem; }
    .company p { font-size: .875rem; color: #374151; margin: 0 0 .25rem; }
    .meta { text-align: right; margin-right: 5rem; margin-top: 2.5rem; }
    .meta .title { font-size: 1.25rem; font-weight: 700; text-align: center; margin-bottom: 1.5rem; }
    .meta .fields { text-align: left; }
    .meta .fields p { font-size: .875rem; margin: 0 0 .5rem; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 1.5rem; }
    th, td { border: 1px solid #000; padding: .5rem 1rem; font-size: .875rem; }
    thead tr { background: #f3f4f6; }
    th { font-weight: 700; }
    .center { text-align: center; }
    .right { text-align: right; }
    .label { background: #f3f4f6; font-weight: 700; }
    .closing { border: 1px solid #000; padding: 1rem; margin-bottom: 1.5rem; height: 8rem; }
    .closing p { font-weight: 700; font-size: .875rem; margin: 0; }
    .strip { border: 1px solid #000; padding: .5rem; font-size: .75rem; display: flex; justify-content: space-between; background: #f9fafb; }
  </style>
</head>
<body>
  <div class="page">
    <div class="header">
      <div class="company">
        <div style="margin-bottom: 1rem;"><img src="{{.Company.LogoURL}}" alt="Logo" width="100"></div>
        <h3>{{.Company.Name}}</h3>
        <p>{{.Company.Address}}</p>
        <p><strong>TEL:</strong> {{.Company.Phone}}</p>
        <p><strong>MF:</strong> {{.Company.MF}}</p>
        <p>Livreur : {{.Invoice.DeliveryPerson}}</p>
      </div>
      <div class="meta">
        <div class="title">Facture : N° {{.Invoice.InvoiceNumber}}</div>
        <div class="fields">
          <p><strong>Nom client:</strong> {{.Invoice.ClientName}}</p>
          <p><strong>N° client:</strong> {{.Invoice.ClientNumber}}</p>
          <p><strong>Adresse:</strong> {{.Invoice.ClientAddress}}</p>
          <p><strong>MF:</strong> {{.Invoice.ClientMF}}</p>
          <p><strong>Date:</strong> {{frdate .Invoice.Date}}</p>
        </div>
      </div>
    </div>
    <table>
      <thead>
        <tr>
          <th style="text-align:left">Désignation Article</th>
          <th class="center">Quantité (kg)</th>
          <th class="center">Prix Uni. TTC</th>
          <th class="center">Montant TTC</th>
        </tr>
      </thead>
      <tbody>
        {{range .Invoice.Items}}<tr>
          <td>{{.Designation}}</td>
          <td class="center">{{qty .Quantity}}</td>
          <td class="center">{{money .UnitPrice}}</td>
          <td class="center">{{money .TotalPrice}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <table>
      <tbody>
        <tr><td class="label">Montant Total HT</td><td class="right">{{money .Invoice.TotalHT}}</td></tr>
        <tr><td class="label">Total REMISE</td><td class="right">{{money .Invoice.TotalRemise}}</td></tr>
        <tr><td class="label">Total TTC</td><td class="right">{{money .Invoice.TotalTTC}}</td></tr>
      </tbody>
    </table>
    <div class="closing">
      <p>Arrêté Le présent la facture à la somme de {{money .Invoice.TotalTTC}}.</p>
    </div>
    <div class="strip">
      <span>Page : 1/1</span>
      <span>Utilisateur : {{.Company.PrintedBy}}</span>
      <span>Date d'impression : {{frdate .PrintedAt}}</span>
    </div>
  </div>
</body>
</html>
`
