// Package config maps Viper settings onto the typed configuration structs
// consumed by the harvester's subsystems.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/odmbench/harvester/internal/crawl"
	"github.com/odmbench/harvester/internal/sink"
)

// Config aggregates every setting that influences a harvest run.
type Config struct {
	Crawl   crawl.Config
	Output  OutputConfig
	Capture CaptureConfig
	PubSub  PubSubConfig
	Ops     OpsConfig
	DevLog  bool
}

// OutputConfig selects where normalized records are written. The JSONL file
// is always written; Postgres is enabled by setting a DSN.
type OutputConfig struct {
	JSONLPath string
	Postgres  sink.PostgresConfig
}

// CaptureConfig controls where unusable pages are preserved. A bucket name
// switches captures from the local filesystem to GCS.
type CaptureConfig struct {
	Dir       string
	GCSBucket string
	GCSPrefix string
}

// PubSubConfig enables record publishing when both fields are set.
type PubSubConfig struct {
	ProjectID string
	Topic     string
}

// OpsConfig configures the health and metrics listener.
type OpsConfig struct {
	ListenAddr string
}

// Load reads the full harvester configuration out of v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Crawl: crawl.Config{
			Seeds:             v.GetStringSlice("crawler.seeds"),
			AllowedHosts:      v.GetStringSlice("crawler.allowed_hosts"),
			UserAgent:         v.GetString("crawler.user_agent"),
			RequestTimeout:    v.GetDuration("crawler.request_timeout"),
			Workers:           v.GetInt("crawler.workers"),
			PerDomainQPS:      v.GetFloat64("crawler.per_domain_qps"),
			MaxDepth:          v.GetInt("crawler.max_depth"),
			MaxPages:          v.GetInt("crawler.max_pages"),
			MaxRunTime:        v.GetDuration("crawler.max_run_time"),
			MaxListingPages:   v.GetInt("crawler.max_listing_pages"),
			MinUsableBytes:    v.GetInt("crawler.min_usable_bytes"),
			CategoryMarker:    v.GetString("crawler.category_marker"),
			RenderTimeout:     v.GetDuration("render.timeout"),
			RenderDomainQPS:   v.GetFloat64("render.domain_qps"),
			RenderConcurrency: v.GetInt("render.concurrency"),
		},
		Output: OutputConfig{
			JSONLPath: v.GetString("output.jsonl_path"),
			Postgres: sink.PostgresConfig{
				DSN:             v.GetString("output.postgres.dsn"),
				ProductsTable:   v.GetString("output.postgres.products_table"),
				RunsTable:       v.GetString("output.postgres.runs_table"),
				MaxConns:        int32(v.GetInt("output.postgres.max_conns")),
				MinConns:        int32(v.GetInt("output.postgres.min_conns")),
				MaxConnLifetime: v.GetDuration("output.postgres.max_conn_lifetime"),
			},
		},
		Capture: CaptureConfig{
			Dir:       v.GetString("capture.dir"),
			GCSBucket: v.GetString("capture.gcs_bucket"),
			GCSPrefix: v.GetString("capture.gcs_prefix"),
		},
		PubSub: PubSubConfig{
			ProjectID: v.GetString("pubsub.project_id"),
			Topic:     v.GetString("pubsub.topic"),
		},
		Ops: OpsConfig{
			ListenAddr: v.GetString("ops.listen_addr"),
		},
		DevLog: v.GetBool("logging.development"),
	}
	if !v.GetBool("render.enabled") {
		cfg.Crawl.RenderConcurrency = 0
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations that cannot produce a working run.
func (c Config) Validate() error {
	if err := c.Crawl.Validate(); err != nil {
		return fmt.Errorf("crawler: %w", err)
	}
	if c.Output.JSONLPath == "" {
		return fmt.Errorf("output.jsonl_path must be set")
	}
	if c.Capture.Dir == "" && c.Capture.GCSBucket == "" {
		return fmt.Errorf("capture.dir or capture.gcs_bucket must be set")
	}
	if (c.PubSub.ProjectID == "") != (c.PubSub.Topic == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic must be set together")
	}
	if c.Ops.ListenAddr == "" {
		return fmt.Errorf("ops.listen_addr must be set")
	}
	return nil
}
