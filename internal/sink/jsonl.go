// Package sink persists harvest output: product records to JSON Lines files
// or Postgres, diagnostic page captures to disk or GCS, and record
// notifications to Pub/Sub.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/odmbench/harvester/internal/product"
	"github.com/odmbench/harvester/internal/runmeta"
)

// JSONLSink appends one JSON document per line to a file.
type JSONLSink struct {
	mu     sync.Mutex
	file   *os.File
	enc    *json.Encoder
	logger *zap.Logger
}

// NewJSONLSink opens (or creates) the target file for appending.
func NewJSONLSink(path string, logger *zap.Logger) (*JSONLSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create sink dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open sink file %s: %w", path, err)
	}
	return &JSONLSink{
		file:   file,
		enc:    json.NewEncoder(file),
		logger: logger,
	}, nil
}

// Write appends the record as one line.
func (s *JSONLSink) Write(ctx context.Context, rec product.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

// WriteRun appends the run metadata record. Written once before the first
// product line so every file is self-describing.
func (s *JSONLSink) WriteRun(ctx context.Context, run runmeta.Run) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(run); err != nil {
		return fmt.Errorf("encode run record: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *JSONLSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close sink file: %w", err)
	}
	return nil
}
