package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/fromagerie-alioui/invoicing-api/internal/api/metrics"
	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

// ErrRendererUnavailable wraps any failure of the layout engine. The HTTP
// layer maps it to a generic 500 without leaking engine internals.
var ErrRendererUnavailable = errors.New("document rendering unavailable")

const (
	defaultRenderTimeout = 30 * time.Second
	defaultMaxConcurrent = 2

	// A4 with 10mm margins, in inches (Chrome's unit).
	paperWidthIn  = 210.0 / 25.4
	paperHeightIn = 297.0 / 25.4
	marginIn      = 10.0 / 25.4
)

// ChromeConfig controls the headless Chrome renderer.
type ChromeConfig struct {
	// Timeout bounds a single render, browser start included.
	Timeout time.Duration
	// MaxConcurrent bounds how many tabs render at once. The engine is a
	// heavy external process; unbounded concurrency exhausts it under load.
	MaxConcurrent int
	// NoSandbox is required when running as root in a container.
	NoSandbox bool
}

// ChromeRenderer rasterizes HTML documents to PDF through the Chrome
// DevTools protocol. One exec allocator (one browser process tree) is shared
// by all renders; each render gets its own tab context which is cancelled on
// every exit path.
type ChromeRenderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	sem         chan struct{}
	logger      zerolog.Logger
}

func NewChromeRenderer(cfg ChromeConfig, logger zerolog.Logger) *ChromeRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRenderTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeRenderer{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		timeout:     cfg.Timeout,
		sem:         make(chan struct{}, cfg.MaxConcurrent),
		logger:      logger,
	}
}

// Render prints an HTML document to PDF. A logo or other remote asset that
// fails to load leaves its box blank; rendering does not block on
// subresources.
func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrRendererUnavailable, ctx.Err())
	}
	defer func() { <-r.sem }()

	start := time.Now()
	pdf, err := r.print(ctx, html)
	if err != nil {
		metrics.PDFRenderErrorsTotal.Inc()
		r.logger.Error().Err(err).Msg("pdf render failed")
		return nil, fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}

	metrics.PDFRenderDuration.Observe(time.Since(start).Seconds())
	r.logger.Info().Int("bytes", len(pdf)).Dur("duration", time.Since(start)).Msg("pdf rendered")
	return pdf, nil
}

func (r *ChromeRenderer) print(ctx context.Context, html string) ([]byte, error) {
	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx)
	defer tabCancel()

	// Timeout and caller cancellation both tear the tab down, never leaking
	// a renderer process.
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, r.timeout)
	defer timeoutCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginRight(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	// Map a tripped deadline to a clearer cause.
	if err != nil && errors.Is(tabCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("render timed out after %v: %w", r.timeout, err)
	}
	if err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, errors.New("generated pdf is empty")
	}
	return pdf, nil
}

// Close tears down the browser process tree.
func (r *ChromeRenderer) Close() error {
	r.allocCancel()
	return nil
}

var _ ports.PDFRenderer = (*ChromeRenderer)(nil)
