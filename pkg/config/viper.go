// Package config bootstraps Viper so the harvester can be configured via a
// config file, environment variables, or CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Init wires up Viper: search paths, defaults, and the HARVESTER_* env
// mapping. When cfgFile is non-empty that exact file is required; otherwise
// a missing config file is fine and defaults plus env vars apply.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("harvester")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/harvester/")
		viper.AddConfigPath("$HOME/.harvester")
	}

	SetDefaults(viper.GetViper())

	viper.SetEnvPrefix("HARVESTER") // e.g. HARVESTER_CRAWLER_WORKERS=16
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// SetDefaults registers every default the harvester understands on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("crawler.user_agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("crawler.workers", 8)
	v.SetDefault("crawler.per_domain_qps", 1.0)
	v.SetDefault("crawler.request_timeout", "20s")
	v.SetDefault("crawler.max_depth", 2)
	v.SetDefault("crawler.max_pages", 0)
	v.SetDefault("crawler.max_run_time", "0s")
	v.SetDefault("crawler.max_listing_pages", 25)
	v.SetDefault("crawler.min_usable_bytes", 2048)
	v.SetDefault("crawler.category_marker", "")

	v.SetDefault("render.enabled", true)
	v.SetDefault("render.concurrency", 2)
	v.SetDefault("render.timeout", "25s")
	v.SetDefault("render.domain_qps", 0.5)

	v.SetDefault("output.jsonl_path", "data/products.jsonl")
	v.SetDefault("output.postgres.products_table", "products")
	v.SetDefault("output.postgres.runs_table", "runs")
	v.SetDefault("output.postgres.max_conns", 8)
	v.SetDefault("output.postgres.min_conns", 1)
	v.SetDefault("output.postgres.max_conn_lifetime", "30m")

	v.SetDefault("capture.dir", "data/captures")
	v.SetDefault("capture.gcs_prefix", "captures")

	v.SetDefault("ops.listen_addr", ":9090")
	v.SetDefault("logging.development", false)
}
