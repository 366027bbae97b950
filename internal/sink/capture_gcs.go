package sink

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/odmbench/harvester/internal/crawl"
)

// GCSCapture stores diagnostic page snapshots in a Google Cloud Storage
// bucket. Authentication comes from Application Default Credentials.
type GCSCapture struct {
	client *storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewGCSCapture initializes the GCS client and verifies bucket access so a
// misconfigured bucket fails at startup rather than mid-run.
func NewGCSCapture(ctx context.Context, bucket, prefix string, logger *zap.Logger) (*GCSCapture, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("close gcs client after attrs failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("bucket %q attributes: %w", bucket, err)
	}
	return &GCSCapture{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Save uploads the page body and returns the gs:// locator.
func (c *GCSCapture) Save(ctx context.Context, page crawl.Page, reason string) (string, error) {
	if len(page.Body) == 0 {
		return "", fmt.Errorf("empty page body")
	}
	urlHash := fmt.Sprintf("%x", sha256.Sum256([]byte(page.URL)))
	object := path.Join(c.prefix, reason, time.Now().UTC().Format("2006-01-02"), urlHash+".html")

	wc := c.client.Bucket(c.bucket).Object(object).NewWriter(ctx)
	wc.ContentType = "text/html; charset=utf-8"
	wc.Metadata = map[string]string{
		"source-url":  page.URL,
		"status-code": fmt.Sprint(page.StatusCode),
		"tier":        string(page.Tier),
		"reason":      reason,
	}
	if _, err := wc.Write(page.Body); err != nil {
		if closeErr := wc.Close(); closeErr != nil {
			c.logger.Warn("close gcs writer after write failure", zap.Error(closeErr))
		}
		return "", fmt.Errorf("write gcs object %s: %w", object, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("close gcs writer for %s: %w", object, err)
	}
	return fmt.Sprintf("gs://%s/%s", c.bucket, object), nil
}

// Close releases the GCS client.
func (c *GCSCapture) Close() error {
	return c.client.Close()
}
