// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional file, and SALARYBAND_ environment variables.
// - Errors returned from this package wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: json or console.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ModelPath points at the serialized placement pipeline.
	ModelPath string `koanf:"model_path"`

	// RulesPath points at the salary band rule table (JSON or YAML).
	RulesPath string `koanf:"rules_path"`

	// WatchRules reloads the rule table when its file changes.
	WatchRules bool `koanf:"watch_rules"`

	// DefaultBand is the sentinel used when no band matches and the rule
	// table does not name its own.
	DefaultBand string `koanf:"default_band"`

	// BatchWorkers bounds concurrent evaluations inside one batch.
	BatchWorkers int `koanf:"batch_workers"`

	// MaxBatchSize caps the number of profiles accepted per batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// RequestTimeoutMS bounds a single evaluation request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsEnabled turns metric recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshMS is the process gauge refresh interval.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Addr:              ":9080",
		ModelPath:         "models/placement_pipeline.json",
		RulesPath:         "band_rules.json",
		WatchRules:        false,
		DefaultBand:       "Low",
		BatchWorkers:      runtime.NumCPU(),
		MaxBatchSize:      1000,
		RequestTimeoutMS:  5000,
		ShutdownTimeoutMS: 10000,
		MetricsNamespace:  "salaryband",
		MetricsEnabled:    true,
		MetricsRefreshMS:  10000,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if strings.TrimSpace(c.ModelPath) == "" {
		errs = append(errs, errors.New("model_path must not be empty"))
	}
	if strings.TrimSpace(c.RulesPath) == "" {
		errs = append(errs, errors.New("rules_path must not be empty"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be json or console", c.LogFormat))
	}
	if c.BatchWorkers <= 0 {
		errs = append(errs, fmt.Errorf("batch_workers must be positive, got %d", c.BatchWorkers))
	}
	if c.MaxBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("max_batch_size must be positive, got %d", c.MaxBatchSize))
	}
	if c.RequestTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout_ms must be positive, got %d", c.RequestTimeoutMS))
	}
	if c.ShutdownTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout_ms must be positive, got %d", c.ShutdownTimeoutMS))
	}
	if strings.TrimSpace(c.MetricsNamespace) == "" {
		errs = append(errs, errors.New("metrics_namespace must not be empty"))
	}
	if c.MetricsRefreshMS <= 0 {
		errs = append(errs, fmt.Errorf("metrics_refresh_ms must be positive, got %d", c.MetricsRefreshMS))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
