package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Catalog.Source != "builtin" {
		t.Errorf("Catalog.Source = %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.DebounceDelay != 500*time.Millisecond {
		t.Errorf("Catalog.DebounceDelay = %v", cfg.Catalog.DebounceDelay)
	}
	if cfg.Engine.RuleTimeout != 5*time.Second {
		t.Errorf("Engine.RuleTimeout = %v", cfg.Engine.RuleTimeout)
	}
	if cfg.Engine.MaxParallel != 8 {
		t.Errorf("Engine.MaxParallel = %d", cfg.Engine.MaxParallel)
	}
	if cfg.Engine.ExprStepBudget != 10000 {
		t.Errorf("Engine.ExprStepBudget = %d", cfg.Engine.ExprStepBudget)
	}
	if cfg.Audit.Backend != "sqlite" || cfg.Audit.SQLite.Path != "data/audit.db" {
		t.Errorf("Audit = %+v", cfg.Audit)
	}
	if !cfg.Audit.SQLite.WALMode || cfg.Audit.SQLite.BusyTimeout != 5*time.Second {
		t.Errorf("Audit.SQLite = %+v", cfg.Audit.SQLite)
	}
	if cfg.Audit.VerificationSchedule != "0 3 * * *" {
		t.Errorf("VerificationSchedule = %q", cfg.Audit.VerificationSchedule)
	}
	if !cfg.Reports.ArchiveEnabled || cfg.Reports.ArchivePath != "data/reports.db" {
		t.Errorf("Reports = %+v", cfg.Reports)
	}
	if cfg.Reports.Format != "json" {
		t.Errorf("Reports.Format = %q", cfg.Reports.Format)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Telemetry.Logging)
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Metrics.Namespace != "veridex" {
		t.Errorf("Metrics = %+v", cfg.Telemetry.Metrics)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Engine.MaxParallel = 2
	cfg.Audit.Backend = "memory"
	cfg.Telemetry.Logging.Level = "debug"

	ApplyDefaults(cfg)

	if cfg.Engine.MaxParallel != 2 {
		t.Errorf("MaxParallel overwritten: %d", cfg.Engine.MaxParallel)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("Backend overwritten: %q", cfg.Audit.Backend)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Level overwritten: %q", cfg.Telemetry.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown catalog source", func(c *Config) { c.Catalog.Source = "http" }, "catalog.source"},
		{"file source without path", func(c *Config) { c.Catalog.Source = "file" }, "catalog.path"},
		{"watch without file source", func(c *Config) { c.Catalog.Watch = true }, "catalog.watch"},
		{"negative debounce", func(c *Config) { c.Catalog.DebounceDelay = -1 }, "debounce_delay"},
		{"zero rule timeout", func(c *Config) { c.Engine.RuleTimeout = 0 }, "rule_timeout"},
		{"zero max parallel", func(c *Config) { c.Engine.MaxParallel = 0 }, "max_parallel"},
		{"zero step budget", func(c *Config) { c.Engine.ExprStepBudget = 0 }, "expr_step_budget"},
		{"unknown audit backend", func(c *Config) { c.Audit.Backend = "kafka" }, "audit.backend"},
		{"sqlite without path", func(c *Config) { c.Audit.SQLite.Path = "" }, "audit.sqlite.path"},
		{
			"jsonl without path",
			func(c *Config) { c.Audit.Backend = "jsonl"; c.Audit.JSONLPath = "" },
			"audit.jsonl_path",
		},
		{"bad cron expression", func(c *Config) { c.Audit.VerificationSchedule = "never" }, "verification_schedule"},
		{"archive without path", func(c *Config) { c.Reports.ArchivePath = "" }, "reports.archive_path"},
		{"unknown report format", func(c *Config) { c.Reports.Format = "xml" }, "reports.format"},
		{"unknown log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "logging.level"},
		{"unknown log format", func(c *Config) { c.Telemetry.Logging.Format = "logfmt" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.RuleTimeout = 0
	cfg.Engine.MaxParallel = 0
	cfg.Reports.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "3 problems") {
		t.Errorf("error does not collect all problems: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := `
catalog:
  source: builtin
engine:
  rule_timeout: 2s
  max_parallel: 4
audit:
  backend: memory
telemetry:
  logging:
    level: debug
    format: text
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Engine.RuleTimeout != 2*time.Second || cfg.Engine.MaxParallel != 4 {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if cfg.Audit.Backend != "memory" {
		t.Errorf("Backend = %q", cfg.Audit.Backend)
	}
	// Unset fields still pick up defaults.
	if cfg.Engine.ExprStepBudget != 10000 {
		t.Errorf("ExprStepBudget = %d", cfg.Engine.ExprStepBudget)
	}
	if cfg.Reports.Format != "json" {
		t.Errorf("Reports.Format = %q", cfg.Reports.Format)
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Catalog.Source != "builtin" || cfg.Audit.Backend != "sqlite" {
		t.Errorf("empty file did not yield defaults: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("catalog: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("audit:\n  backend: kafka\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"invalid yaml", broken},
		{"failing validation", invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
audit:
  backend: sqlite
engine:
  max_parallel: 4
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("VERIDEX_AUDIT_BACKEND", "memory")
	t.Setenv("VERIDEX_ENGINE_MAX_PARALLEL", "16")
	t.Setenv("VERIDEX_LOG_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Audit.Backend != "memory" {
		t.Errorf("Backend = %q, want env override", cfg.Audit.Backend)
	}
	if cfg.Engine.MaxParallel != 16 {
		t.Errorf("MaxParallel = %d, want 16", cfg.Engine.MaxParallel)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
}

func TestEnvOverridesAreRevalidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("VERIDEX_AUDIT_BACKEND", "kafka")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("expected validation failure for bad override")
	}
}
