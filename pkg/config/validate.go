package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid or inconsistent values.
// Validation failures are collected and returned as a single error so
// an operator can fix everything in one pass.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.Catalog.Source {
	case "builtin":
	case "file":
		if cfg.Catalog.Path == "" {
			errs = append(errs, "catalog.path is required when catalog.source is \"file\"")
		}
	default:
		errs = append(errs, fmt.Sprintf("catalog.source must be \"builtin\" or \"file\", got %q", cfg.Catalog.Source))
	}
	if cfg.Catalog.Watch && cfg.Catalog.Source != "file" {
		errs = append(errs, "catalog.watch requires catalog.source \"file\"")
	}
	if cfg.Catalog.DebounceDelay < 0 {
		errs = append(errs, "catalog.debounce_delay cannot be negative")
	}

	if cfg.Engine.RuleTimeout <= 0 {
		errs = append(errs, "engine.rule_timeout must be positive")
	}
	if cfg.Engine.MaxParallel <= 0 {
		errs = append(errs, "engine.max_parallel must be positive")
	}
	if cfg.Engine.ExprStepBudget <= 0 {
		errs = append(errs, "engine.expr_step_budget must be positive")
	}

	switch cfg.Audit.Backend {
	case "sqlite":
		if cfg.Audit.SQLite.Path == "" {
			errs = append(errs, "audit.sqlite.path is required for the sqlite backend")
		}
	case "jsonl":
		if cfg.Audit.JSONLPath == "" {
			errs = append(errs, "audit.jsonl_path is required for the jsonl backend")
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("audit.backend must be \"sqlite\", \"jsonl\" or \"memory\", got %q", cfg.Audit.Backend))
	}
	if cfg.Audit.VerificationSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Audit.VerificationSchedule); err != nil {
			errs = append(errs, fmt.Sprintf("audit.verification_schedule is not a valid cron expression: %v", err))
		}
	}

	if cfg.Reports.ArchiveEnabled && cfg.Reports.ArchivePath == "" {
		errs = append(errs, "reports.archive_path is required when the archive is enabled")
	}
	switch cfg.Reports.Format {
	case "json", "csv":
	default:
		errs = append(errs, fmt.Sprintf("reports.format must be \"json\" or \"csv\", got %q", cfg.Reports.Format))
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("telemetry.logging.level must be one of debug, info, warn, error, got %q", cfg.Telemetry.Logging.Level))
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("telemetry.logging.format must be \"json\" or \"text\", got %q", cfg.Telemetry.Logging.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return fmt.Errorf("%s", errs[0])
	}
	msg := fmt.Sprintf("%d problems:", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e
	}
	return fmt.Errorf("%s", msg)
}
