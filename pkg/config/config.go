package config

import "time"

// Config is the root configuration structure for Veridex Callisto.
// It contains all configuration sections for rule catalogs, the
// evaluation engine, the audit chain, report handling, and telemetry.
type Config struct {
	// Catalog contains rule catalog configuration including the catalog
	// source and watch mode.
	Catalog CatalogConfig `yaml:"catalog"`

	// Engine contains evaluation engine configuration including timeouts
	// and concurrency limits.
	Engine EngineConfig `yaml:"engine"`

	// Audit contains audit chain configuration including backend
	// selection and scheduled verification.
	Audit AuditConfig `yaml:"audit"`

	// Reports contains report archive and export configuration.
	Reports ReportsConfig `yaml:"reports"`

	// Telemetry contains observability configuration including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CatalogConfig contains rule catalog configuration.
type CatalogConfig struct {
	// Source selects where rules come from.
	// Options: "builtin" (compiled-in EU AI Act catalog), "file"
	// Default: "builtin"
	Source string `yaml:"source"`

	// Path is the catalog YAML file path when Source is "file".
	Path string `yaml:"path"`

	// Watch reloads the catalog when the file changes.
	// Only meaningful when Source is "file".
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceDelay coalesces rapid file change events into one reload.
	// Default: 500ms
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// EngineConfig contains evaluation engine configuration.
type EngineConfig struct {
	// RuleTimeout bounds a single rule evaluation.
	// Default: 5s
	RuleTimeout time.Duration `yaml:"rule_timeout"`

	// MaxParallel is the number of rules evaluated concurrently.
	// Default: 8
	MaxParallel int `yaml:"max_parallel"`

	// ExprStepBudget caps evaluation steps for expression fallbacks.
	// Default: 10000
	ExprStepBudget int `yaml:"expr_step_budget"`
}

// AuditConfig contains audit chain configuration.
type AuditConfig struct {
	// Backend selects the audit store.
	// Options: "sqlite", "jsonl", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains settings for the sqlite backend.
	SQLite AuditSQLiteConfig `yaml:"sqlite"`

	// JSONLPath is the log file path for the jsonl backend.
	// Default: "data/audit.jsonl"
	JSONLPath string `yaml:"jsonl_path"`

	// VerificationSchedule is a cron expression for periodic full chain
	// verification. Empty disables scheduled verification.
	// Default: "0 3 * * *"
	VerificationSchedule string `yaml:"verification_schedule"`
}

// AuditSQLiteConfig contains settings for the SQLite audit backend.
type AuditSQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ReportsConfig contains report archive and export configuration.
type ReportsConfig struct {
	// ArchiveEnabled persists generated reports to the archive database.
	// Default: true
	ArchiveEnabled bool `yaml:"archive_enabled"`

	// ArchivePath is the archive database file path.
	// Default: "data/reports.db"
	ArchivePath string `yaml:"archive_path"`

	// Format is the default export format.
	// Options: "json", "csv"
	// Default: "json"
	Format string `yaml:"format"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// ListenAddress is the address for the metrics endpoint. Empty
	// disables the endpoint even when collection is enabled.
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the metric name prefix.
	// Default: "veridex"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "callisto"
	Subsystem string `yaml:"subsystem"`

	// EvaluationDurationBuckets defines histogram buckets for rule
	// evaluation duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0]
	EvaluationDurationBuckets []float64 `yaml:"evaluation_duration_buckets"`
}
