// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// CatalogConfig defines catalog provider API settings.
type CatalogConfig struct {
	BaseURL         string          `yaml:"base_url"`
	APIKey          string          `yaml:"api_key"`
	PageSize        int             `yaml:"page_size"`
	MaxPages        int             `yaml:"max_pages"`
	MaxSKUsPerBatch int             `yaml:"max_skus_per_batch"`
	CallTimeout     time.Duration   `yaml:"call_timeout"`
	Retry           RetryConfig     `yaml:"retry"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RetryConfig defines the per-call retry policy.
type RetryConfig struct {
	Attempts    int           `yaml:"attempts"`
	BackoffBase time.Duration `yaml:"backoff_base"`
}

// RateLimitConfig defines provider API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyCatalogDefaults(&cfg.Catalog)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.bestbuy.com/v1"
	}
	if c.PageSize == 0 {
		c.PageSize = 20
	}
	if c.MaxPages == 0 {
		c.MaxPages = 10
	}
	if c.MaxSKUsPerBatch == 0 {
		c.MaxSKUsPerBatch = 25
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = 3
	}
	if c.Retry.BackoffBase == 0 {
		c.Retry.BackoffBase = 500 * time.Millisecond
	}
	applyRateLimitDefaults(&c.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 5
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 50000
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Catalog.APIKey == "" {
		errs = append(errs, fmt.Errorf("catalog.api_key is required"))
	}
	if cfg.Catalog.Retry.Attempts < 1 {
		errs = append(errs, fmt.Errorf("catalog.retry.attempts must be at least 1"))
	}
	if cfg.Catalog.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("catalog.max_pages must be at least 1"))
	}
	if cfg.Catalog.MaxSKUsPerBatch < 1 {
		errs = append(errs, fmt.Errorf("catalog.max_skus_per_batch must be at least 1"))
	}

	return errors.Join(errs...)
}
