package crawl

import (
	"fmt"
	"time"
)

// Config holds the settings for a harvest run. Decoupled from Viper so the
// engine and its tests never touch configuration files.
type Config struct {
	Seeds           []string
	AllowedHosts    []string
	UserAgent       string
	RequestTimeout  time.Duration
	Workers         int
	PerDomainQPS    float64
	MaxDepth        int
	MaxPages        int
	MaxRunTime      time.Duration
	MaxListingPages int
	MinUsableBytes  int
	CategoryMarker  string

	RenderConcurrency int
	RenderTimeout     time.Duration
	RenderDomainQPS   float64
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if len(c.Seeds) == 0 {
		return fmt.Errorf("at least one seed url is required")
	}
	if len(c.AllowedHosts) == 0 {
		return fmt.Errorf("at least one allowed host is required")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent must be set")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0")
	}
	if c.MaxRunTime < 0 {
		return fmt.Errorf("max run time must be >= 0")
	}
	if c.MaxListingPages <= 0 {
		return fmt.Errorf("max listing pages must be > 0")
	}
	for _, seed := range c.Seeds {
		if _, err := Canonicalize(seed); err != nil {
			return fmt.Errorf("seed %q: %w", seed, err)
		}
	}
	return nil
}
