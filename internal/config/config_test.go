package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.OutputDir != "output" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "output")
	}
	if cfg.RescoreSpec == "" {
		t.Error("RescoreSpec should have a default")
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Scoring.HalfLifeDays != 90 {
		t.Errorf("Scoring.HalfLifeDays = %v, want 90", cfg.Scoring.HalfLifeDays)
	}
	if err := cfg.Scoring.Validate(); err != nil {
		t.Errorf("default scoring config should validate: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
http_addr: ":9090"
postgres_dsn: "postgres://test"
clickhouse_dsn: "clickhouse://localhost:9000/tipscore"
workers: 4
scoring:
  half_life_days: 60
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9090")
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Scoring.HalfLifeDays != 60 {
		t.Errorf("Scoring.HalfLifeDays = %v, want 60", cfg.Scoring.HalfLifeDays)
	}
	// Unset scoring fields keep their defaults.
	if cfg.Scoring.AccuracyWeight != 0.40 {
		t.Errorf("Scoring.AccuracyWeight = %v, want 0.40", cfg.Scoring.AccuracyWeight)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `postgres_dsn: "postgres://from-file"`)
	t.Setenv("TIPSCORE_POSTGRES_DSN", "postgres://from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PostgresDSN != "postgres://from-env" {
		t.Errorf("PostgresDSN = %q, want env override", cfg.PostgresDSN)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		cfg.PostgresDSN = "postgres://test"
		cfg.ClickhouseDSN = "clickhouse://localhost:9000/tipscore"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config should pass: %v", err)
	}

	cfg := valid()
	cfg.PostgresDSN = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing postgres_dsn should fail validation")
	}

	cfg = valid()
	cfg.ClickhouseDSN = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing clickhouse_dsn should fail validation")
	}

	cfg = valid()
	cfg.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative workers should fail validation")
	}

	cfg = valid()
	cfg.Scoring.AccuracyWeight = 0.5
	if err := cfg.Validate(); err == nil {
		t.Error("broken scoring weights should fail validation")
	}
}
