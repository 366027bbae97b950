package crawl

import (
	"context"
	"time"

	"github.com/odmbench/harvester/internal/product"
)

// Fetcher retrieves a URL over plain HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Renderer executes a page in a real browser and returns the settled DOM.
// Used when the direct fetch came back blocked or empty.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (Page, error)
	Close(ctx context.Context) error
}

// RecordSink receives accepted product records.
type RecordSink interface {
	Write(ctx context.Context, rec product.Record) error
	Close(ctx context.Context) error
}

// Capture stores page snapshots for offline diagnosis and returns a locator
// for the stored artifact.
type Capture interface {
	Save(ctx context.Context, page Page, reason string) (string, error)
}

// RetryPolicy decides whether and when a failed fetch is retried.
type RetryPolicy interface {
	ShouldRetry(err error, statusCode, attempt int) bool
	Backoff(attempt int) time.Duration
}
