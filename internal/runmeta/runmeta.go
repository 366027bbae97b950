// Package runmeta describes a harvest run: its identifier, timing, and the
// configuration snapshot it ran with. One run record accompanies every batch
// of product records so results stay traceable to their settings.
package runmeta

import (
	"time"

	"github.com/google/uuid"

	"github.com/odmbench/harvester/internal/crawl"
)

// Run is the metadata record for one harvest execution.
type Run struct {
	ID         string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
	Seeds      []string          `json:"seeds"`
	Hosts      []string          `json:"hosts"`
	Settings   map[string]any    `json:"settings"`
	Labels     map[string]string `json:"labels,omitempty"`
}

// New creates a run record with a fresh UUID and a snapshot of the crawl
// configuration.
func New(cfg crawl.Config, startedAt time.Time) Run {
	return Run{
		ID:        uuid.NewString(),
		StartedAt: startedAt.UTC(),
		Seeds:     append([]string(nil), cfg.Seeds...),
		Hosts:     append([]string(nil), cfg.AllowedHosts...),
		Settings: map[string]any{
			"workers":           cfg.Workers,
			"max_depth":         cfg.MaxDepth,
			"max_pages":         cfg.MaxPages,
			"max_run_time":      cfg.MaxRunTime.String(),
			"max_listing_pages": cfg.MaxListingPages,
			"per_domain_qps":    cfg.PerDomainQPS,
			"min_usable_bytes":  cfg.MinUsableBytes,
			"render_enabled":    cfg.RenderConcurrency > 0,
			"user_agent":        cfg.UserAgent,
		},
	}
}

// Finish stamps the completion time.
func (r *Run) Finish(at time.Time) {
	t := at.UTC()
	r.FinishedAt = &t
}
