package config

import "time"

// Default values for configuration fields.
const (
	// Catalog defaults
	DefaultCatalogSource        = "builtin"
	DefaultCatalogWatch         = false
	DefaultCatalogDebounceDelay = 500 * time.Millisecond

	// Engine defaults
	DefaultEngineRuleTimeout    = 5 * time.Second
	DefaultEngineMaxParallel    = 8
	DefaultEngineExprStepBudget = 10000

	// Audit defaults
	DefaultAuditBackend              = "sqlite"
	DefaultAuditSQLitePath           = "data/audit.db"
	DefaultAuditSQLiteMaxOpenConns   = 10
	DefaultAuditSQLiteMaxIdleConns   = 5
	DefaultAuditSQLiteWALMode        = true
	DefaultAuditSQLiteBusyTimeout    = 5 * time.Second
	DefaultAuditJSONLPath            = "data/audit.jsonl"
	DefaultAuditVerificationSchedule = "0 3 * * *"

	// Reports defaults
	DefaultReportsArchiveEnabled = true
	DefaultReportsArchivePath    = "data/reports.db"
	DefaultReportsFormat         = "json"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "veridex"
	DefaultMetricsSubsystem = "callisto"
)

// DefaultConfig returns a configuration populated with defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = DefaultCatalogSource
	}
	if cfg.Catalog.DebounceDelay == 0 {
		cfg.Catalog.DebounceDelay = DefaultCatalogDebounceDelay
	}

	if cfg.Engine.RuleTimeout == 0 {
		cfg.Engine.RuleTimeout = DefaultEngineRuleTimeout
	}
	if cfg.Engine.MaxParallel == 0 {
		cfg.Engine.MaxParallel = DefaultEngineMaxParallel
	}
	if cfg.Engine.ExprStepBudget == 0 {
		cfg.Engine.ExprStepBudget = DefaultEngineExprStepBudget
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = DefaultAuditSQLitePath
	}
	if cfg.Audit.SQLite.MaxOpenConns == 0 {
		cfg.Audit.SQLite.MaxOpenConns = DefaultAuditSQLiteMaxOpenConns
	}
	if cfg.Audit.SQLite.MaxIdleConns == 0 {
		cfg.Audit.SQLite.MaxIdleConns = DefaultAuditSQLiteMaxIdleConns
	}
	// Boolean defaults ride on a sibling zero value, since an unset bool
	// is indistinguishable from an explicit false.
	if cfg.Audit.SQLite.BusyTimeout == 0 {
		cfg.Audit.SQLite.WALMode = DefaultAuditSQLiteWALMode
		cfg.Audit.SQLite.BusyTimeout = DefaultAuditSQLiteBusyTimeout
	}
	if cfg.Audit.JSONLPath == "" {
		cfg.Audit.JSONLPath = DefaultAuditJSONLPath
	}
	if cfg.Audit.VerificationSchedule == "" {
		cfg.Audit.VerificationSchedule = DefaultAuditVerificationSchedule
	}

	if cfg.Reports.ArchivePath == "" {
		cfg.Reports.ArchiveEnabled = DefaultReportsArchiveEnabled
		cfg.Reports.ArchivePath = DefaultReportsArchivePath
	}
	if cfg.Reports.Format == "" {
		cfg.Reports.Format = DefaultReportsFormat
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.EvaluationDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.EvaluationDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}
	}
}
