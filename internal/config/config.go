// Package config provides configuration management for the dashboard.
// Configurations are loaded from YAML files; API keys only come from the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Costing  CostingConfig  `yaml:"costing"`
	Advisory AdvisoryConfig `yaml:"advisory"`
}

// ServerConfig controls the API server
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AdvisoryTimeout time.Duration `yaml:"advisory_timeout"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LogConfig controls logrus output
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CatalogConfig selects the seed data. An empty SeedFile uses the built-in demo catalog.
type CatalogConfig struct {
	SeedFile string `yaml:"seed_file"`
}

// CostingConfig selects the purchase costing policy and price history window
type CostingConfig struct {
	Policy              string `yaml:"policy"`
	PriceHistoryMonths  int    `yaml:"price_history_months"`
	LowStockAlertsShown int    `yaml:"low_stock_alerts_shown"`
}

// AdvisoryConfig selects the advisory text provider
type AdvisoryConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Default returns the configuration used when no file overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			AdvisoryTimeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Costing: CostingConfig{
			Policy:              "last_price",
			PriceHistoryMonths:  6,
			LowStockAlertsShown: 4,
		},
		Advisory: AdvisoryConfig{
			Provider:    "none",
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   600,
		},
	}
}

// Validate checks the whole configuration and reports every problem found
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Metrics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}

	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	if err := c.Costing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("costing: %w", err))
	}

	if err := c.Advisory.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("advisory: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks the server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	if s.AdvisoryTimeout < 0 {
		return errors.New("advisory_timeout must not be negative")
	}
	return nil
}

// Validate checks the metrics configuration
func (m *MetricsConfig) Validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", m.Port)
	}
	if m.Path == "" || m.Path[0] != '/' {
		return fmt.Errorf("path must start with '/', got %q", m.Path)
	}
	return nil
}

// Validate checks the log configuration
func (l *LogConfig) Validate() error {
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return err
	}
	switch l.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("format must be text or json, got %q", l.Format)
	}
}

// NewLogger builds a logrus logger writing to stderr
func (l *LogConfig) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	if l.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

// Validate checks the costing configuration
func (c *CostingConfig) Validate() error {
	switch c.Policy {
	case "last_price", "weighted_average":
	default:
		return fmt.Errorf("policy must be last_price or weighted_average, got %q", c.Policy)
	}
	if c.PriceHistoryMonths < 1 {
		return fmt.Errorf("price_history_months must be at least 1, got %d", c.PriceHistoryMonths)
	}
	if c.LowStockAlertsShown < 0 {
		return fmt.Errorf("low_stock_alerts_shown must not be negative, got %d", c.LowStockAlertsShown)
	}
	return nil
}

// Validate checks the advisory configuration
func (a *AdvisoryConfig) Validate() error {
	switch a.Provider {
	case "none", "":
		return nil
	case "openai", "github_models", "azure":
	default:
		return fmt.Errorf("unsupported provider %q", a.Provider)
	}
	if a.Temperature < 0 || a.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", a.Temperature)
	}
	if a.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", a.MaxTokens)
	}
	return nil
}
