package sink

import (
	"context"
	"errors"

	"github.com/odmbench/harvester/internal/crawl"
	"github.com/odmbench/harvester/internal/product"
)

// Tee fans every record out to multiple sinks. A failing sink does not stop
// the others; the errors are joined.
type Tee struct {
	sinks []crawl.RecordSink
}

// NewTee builds a fan-out over the given sinks.
func NewTee(sinks ...crawl.RecordSink) *Tee {
	return &Tee{sinks: sinks}
}

// Write delivers the record to every sink.
func (t *Tee) Write(ctx context.Context, rec product.Record) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (t *Tee) Close(ctx context.Context) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
