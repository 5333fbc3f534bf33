// Package wikicfp provides the directory-site collaborators: a paginating
// search client that yields raw announcement fragments and a parser that
// extracts Conference records from announcement pages.
package wikicfp

import (
	"fmt"
	"net/url"
	"time"

	"cfpscout/pkg/config"
)

// Config holds configuration parameters for the WikiCFP client.
// Configuration is loaded from environment variables with fallback to defaults.
type Config struct {
	// BaseURL is the root of the directory site, without trailing slash.
	BaseURL string

	// MaxPages caps pagination as a guard against a source that never
	// returns an empty result page. Zero means no cap.
	MaxPages int

	// RequestTimeout is the maximum duration for a single HTTP request.
	RequestTimeout time.Duration

	// RequestsPerSecond throttles requests to stay polite toward the
	// shared public site.
	RequestsPerSecond float64

	// UserAgent is sent with every request.
	UserAgent string
}

// LoadConfig loads client configuration from environment variables.
//
// Environment variables:
//   - WIKICFP_BASE_URL: Site root (default: http://www.wikicfp.com)
//   - WIKICFP_MAX_PAGES: Pagination cap, 0 = unlimited (default: 50)
//   - WIKICFP_REQUEST_TIMEOUT: Per-request timeout (default: 30s)
//   - WIKICFP_REQUESTS_PER_SECOND: Throttle (default: 1.0)
func LoadConfig() Config {
	return Config{
		BaseURL:           config.GetEnvString("WIKICFP_BASE_URL", "http://www.wikicfp.com"),
		MaxPages:          config.GetEnvInt("WIKICFP_MAX_PAGES", 50),
		RequestTimeout:    config.GetEnvDuration("WIKICFP_REQUEST_TIMEOUT", 30*time.Second),
		RequestsPerSecond: config.GetEnvFloat("WIKICFP_REQUESTS_PER_SECOND", 1.0),
		UserAgent:         config.GetEnvString("WIKICFP_USER_AGENT", "cfpscout/1.0"),
	}
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https scheme, got %q", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL must have a host, got %q", c.BaseURL)
	}

	if c.MaxPages < 0 {
		return fmt.Errorf("max pages must not be negative, got %d", c.MaxPages)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.RequestTimeout)
	}

	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %v", c.RequestsPerSecond)
	}

	return nil
}
