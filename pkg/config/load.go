package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path, applies default values and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention VERIDEX_SECTION_FIELD (e.g. VERIDEX_AUDIT_BACKEND) and
// always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("VERIDEX_CATALOG_SOURCE"); val != "" {
		cfg.Catalog.Source = val
	}
	if val := os.Getenv("VERIDEX_CATALOG_PATH"); val != "" {
		cfg.Catalog.Path = val
	}
	if val := os.Getenv("VERIDEX_CATALOG_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Watch = b
		}
	}

	if val := os.Getenv("VERIDEX_ENGINE_RULE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Engine.RuleTimeout = d
		}
	}
	if val := os.Getenv("VERIDEX_ENGINE_MAX_PARALLEL"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Engine.MaxParallel = n
		}
	}

	if val := os.Getenv("VERIDEX_AUDIT_BACKEND"); val != "" {
		cfg.Audit.Backend = val
	}
	if val := os.Getenv("VERIDEX_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLite.Path = val
	}
	if val := os.Getenv("VERIDEX_AUDIT_JSONL_PATH"); val != "" {
		cfg.Audit.JSONLPath = val
	}
	if val := os.Getenv("VERIDEX_AUDIT_VERIFICATION_SCHEDULE"); val != "" {
		cfg.Audit.VerificationSchedule = val
	}

	if val := os.Getenv("VERIDEX_REPORTS_ARCHIVE_PATH"); val != "" {
		cfg.Reports.ArchivePath = val
	}

	if val := os.Getenv("VERIDEX_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("VERIDEX_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("VERIDEX_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}
