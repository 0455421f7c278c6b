package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fromagerie-alioui/invoicing-api/internal/core/ports"
)

const pdfTTL = time.Hour

// PDFCache stores rendered invoice documents in Redis. Keys embed the
// invoice's update time, so edited invoices miss naturally and stale entries
// age out through the TTL; no explicit invalidation is needed.
type PDFCache struct {
	client *redis.Client
}

// NewPDFCache creates a PDFCache wrapping the given Redis client.
func NewPDFCache(client *redis.Client) *PDFCache {
	return &PDFCache{client: client}
}

// Get returns the cached PDF bytes for key, or (nil, false, nil) on a miss.
func (c *PDFCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("pdf cache get: %w", err)
	}
	return data, true, nil
}

// Set stores the rendered document (expires after pdfTTL).
func (c *PDFCache) Set(ctx context.Context, key string, pdf []byte) error {
	if err := c.client.Set(ctx, key, pdf, pdfTTL).Err(); err != nil {
		return fmt.Errorf("pdf cache set: %w", err)
	}
	return nil
}

var _ ports.PDFCache = (*PDFCache)(nil)
