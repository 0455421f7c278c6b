// Package metrics defines all custom Prometheus metrics for the invoicing
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "invoicing"

// ── Invoice metrics ───────────────────────────────────────────────────────────

// InvoicesCreatedTotal counts invoices successfully persisted with a freshly
// allocated number.
var InvoicesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_created_total",
		Help:      "Total number of invoices created.",
	},
)

// InvoiceNumberConflictsTotal counts allocation races: a concurrent create
// reached the same number first and the insert was retried.
var InvoiceNumberConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoice_number_conflicts_total",
		Help:      "Total number of invoice number allocation conflicts that triggered a retry.",
	},
)

// ── PDF metrics ───────────────────────────────────────────────────────────────

// PDFRenderDuration measures how long a single successful render takes,
// queueing for the engine included.
var PDFRenderDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pdf_render_duration_seconds",
		Help:      "Duration of HTML-to-PDF rendering.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// PDFRenderErrorsTotal counts renders that failed (engine crash, timeout,
// empty output).
var PDFRenderErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pdf_render_errors_total",
		Help:      "Total number of failed PDF renders.",
	},
)

// PDFCacheTotal counts cache decisions for rendered documents.
// Label:
//   - result: "hit" (served from cache) or "miss" (rendered)
var PDFCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pdf_cache_total",
		Help:      "Total number of PDF cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
