package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"veridex-hq/callisto/pkg/audit/storage"
	"veridex-hq/callisto/pkg/cli"
	"veridex-hq/callisto/pkg/config"
	"veridex-hq/callisto/pkg/engine"
	"veridex-hq/callisto/pkg/rules"
	"veridex-hq/callisto/pkg/rules/euaiact"
	"veridex-hq/callisto/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "veridex",
	Short: "Veridex Callisto - compliance rule evaluation for AI systems",
	Long: `Veridex Callisto evaluates AI system profiles against regulatory rule
catalogs and records every evaluation in a hash-chained audit log.

It provides:
  - Rule evaluation against the built-in EU AI Act catalog or catalog files
  - Scored compliance reports with severity-grouped remediation gaps
  - A tamper-evident, hash-chained audit trail with chain verification
  - Catalog linting against each rule's shipped test cases`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file, falling back to defaults
// when the default path does not exist. An explicitly given path that
// is missing is an error.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !rootCmd.PersistentFlags().Changed("config") {
			return config.DefaultConfig(), nil
		}
		return nil, cli.NewConfigError("", fmt.Sprintf("config file %q not found", cfgFile))
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}

// setupLogging installs the configured logger as the process default.
func setupLogging(cfg *config.Config) error {
	lc := cfg.Telemetry.Logging
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(lc, nil)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return nil
}

// buildCatalog constructs the rule catalog selected by the config.
// File catalogs still resolve against the built-in evaluator registry,
// so a file copy of a built-in catalog keeps its reviewed evaluators.
func buildCatalog(cfg *config.Config) (*rules.Catalog, error) {
	switch cfg.Catalog.Source {
	case "builtin", "":
		return euaiact.NewCatalog()
	case "file":
		loader := rules.NewLoader(nil, rules.CatalogOptions{
			Registry:        euaiact.NewRegistry(),
			CheckExpression: engine.CheckExpression,
		})
		return loader.LoadFile(cfg.Catalog.Path)
	default:
		return nil, cli.NewConfigError("catalog.source", fmt.Sprintf("unknown source %q", cfg.Catalog.Source))
	}
}

// buildAuditStore constructs the audit store selected by the config.
func buildAuditStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Audit.Backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Audit.SQLite.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create audit data directory: %w", err)
		}
		return storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:         cfg.Audit.SQLite.Path,
			MaxOpenConns: cfg.Audit.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Audit.SQLite.MaxIdleConns,
			WALMode:      cfg.Audit.SQLite.WALMode,
			BusyTimeout:  cfg.Audit.SQLite.BusyTimeout,
		})
	case "jsonl":
		if err := os.MkdirAll(filepath.Dir(cfg.Audit.JSONLPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create audit data directory: %w", err)
		}
		return storage.NewJSONLStore(cfg.Audit.JSONLPath)
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, cli.NewConfigError("audit.backend", fmt.Sprintf("unknown backend %q", cfg.Audit.Backend))
	}
}
