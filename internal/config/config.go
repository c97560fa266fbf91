package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/0097eo/ideal-furniture/pkg/config"
)

// Config holds all configuration for the storefront sync client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Storefront backend
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"http://localhost:5555"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Product listing
	PerPage int `env:"PRODUCTS_PER_PAGE" envDefault:"10"`

	// Circuit breaker
	BreakerFailureRatio float64       `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`
	BreakerTimeout      time.Duration `env:"BREAKER_TIMEOUT" envDefault:"30s"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.APIBaseURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive: %s", c.HTTPTimeout)
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return fmt.Errorf("products per page must be in [1,100]: %d", c.PerPage)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("breaker failure ratio must be in (0,1]: %f", c.BreakerFailureRatio)
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("trace sample rate must be in [0,1]: %f", c.TraceSampleRate)
	}
	return nil
}
