package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tipscore/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	HTTPAddr      string `yaml:"http_addr"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
	OutputDir     string `yaml:"output_dir"`

	// RescoreSpec is the cron schedule for periodic rescoring.
	RescoreSpec string `yaml:"rescore_spec"`

	// Workers bounds the number of creators scored concurrently.
	Workers int `yaml:"workers"`

	Scoring domain.ScoringConfig `yaml:"scoring"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; the defaults and
// environment carry a usable configuration on their own.
func Load(path string) (*Config, error) {
	cfg := &Config{Scoring: domain.DefaultScoringConfig()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TIPSCORE_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("TIPSCORE_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("TIPSCORE_CLICKHOUSE_DSN"); v != "" {
		cfg.ClickhouseDSN = v
	}
	if v := os.Getenv("TIPSCORE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("TIPSCORE_RESCORE_SPEC"); v != "" {
		cfg.RescoreSpec = v
	}

	// Defaults
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.RescoreSpec == "" {
		cfg.RescoreSpec = "0 15 0 * * *" // daily at 00:15 UTC
	}
	if cfg.Workers == 0 {
		cfg.Workers = 8
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres_dsn is required")
	}
	if c.ClickhouseDSN == "" {
		return fmt.Errorf("clickhouse_dsn is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	return nil
}
