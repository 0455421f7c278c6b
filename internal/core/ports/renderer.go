package ports

import "context"

// PDFRenderer rasterizes a complete HTML document into PDF bytes. The engine
// behind it is a scarce resource; implementations must release whatever they
// acquire on every exit path, success or failure.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// PDFCache stores rendered documents keyed by invoice identity. A miss is
// (nil, false, nil); cache errors are reported but callers are expected to
// fall through to a direct render.
type PDFCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, pdf []byte) error
}
