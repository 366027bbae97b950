package sink

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/odmbench/harvester/internal/crawl"
)

// captureMeta is stored next to each captured page body.
type captureMeta struct {
	URL        string    `json:"url"`
	FinalURL   string    `json:"final_url"`
	StatusCode int       `json:"status_code"`
	Tier       string    `json:"tier"`
	Reason     string    `json:"reason"`
	CapturedAt time.Time `json:"captured_at"`
	Bytes      int       `json:"bytes"`
}

// FSCapture stores diagnostic page snapshots on the local filesystem,
// grouped by reason and capture date.
type FSCapture struct {
	root   string
	logger *zap.Logger
}

// NewFSCapture returns a capture store rooted at dir.
func NewFSCapture(root string, logger *zap.Logger) (*FSCapture, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create capture dir %s: %w", root, err)
	}
	return &FSCapture{root: root, logger: logger}, nil
}

// Save writes the page body plus a metadata json and returns the body path.
func (c *FSCapture) Save(ctx context.Context, page crawl.Page, reason string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	if len(page.Body) == 0 {
		return "", fmt.Errorf("empty page body")
	}

	target := filepath.Join(c.root, captureObjectName(page.URL, reason, time.Now().UTC()))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("create capture subdir: %w", err)
	}
	if err := os.WriteFile(target, page.Body, 0o640); err != nil {
		return "", fmt.Errorf("write capture %s: %w", target, err)
	}

	meta := captureMeta{
		URL:        page.URL,
		FinalURL:   page.FinalURL,
		StatusCode: page.StatusCode,
		Tier:       string(page.Tier),
		Reason:     reason,
		CapturedAt: time.Now().UTC(),
		Bytes:      len(page.Body),
	}
	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal capture meta: %w", err)
	}
	metaPath := target[:len(target)-len(filepath.Ext(target))] + ".json"
	if err := os.WriteFile(metaPath, payload, 0o640); err != nil {
		return "", fmt.Errorf("write capture meta %s: %w", metaPath, err)
	}
	return target, nil
}

func captureObjectName(url, reason string, at time.Time) string {
	urlHash := fmt.Sprintf("%x", sha256.Sum256([]byte(url)))
	return filepath.Join(reason, at.Format("2006-01-02"), urlHash+".html")
}
