package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	auditlog "veridex-hq/callisto/pkg/audit/logger"
	"veridex-hq/callisto/pkg/cli"
	"veridex-hq/callisto/pkg/engine"
	"veridex-hq/callisto/pkg/profile"
	"veridex-hq/callisto/pkg/report"
	"veridex-hq/callisto/pkg/telemetry/metrics"
)

var evaluateFlags struct {
	profile   string
	format    string
	output    string
	noArchive bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a system profile against the rule catalog",
	Long: `Evaluate a declared AI system profile against the configured rule
catalog and produce a compliance report.

Every rule outcome and the run itself are appended to the audit chain
before the report is produced. Reports are archived by default so past
evaluations of a system can be compared.

Examples:
  # Evaluate against the built-in EU AI Act catalog
  veridex evaluate --profile system.yaml

  # Write the report as CSV
  veridex evaluate --profile system.yaml --format csv --output report.csv

  # Skip the report archive
  veridex evaluate --profile system.yaml --no-archive`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.profile, "profile", "p", "", "system profile YAML file (required)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "", "output format: json, csv (default from config)")
	evaluateCmd.Flags().StringVarP(&evaluateFlags.output, "output", "o", "", "output file (default: stdout)")
	evaluateCmd.Flags().BoolVar(&evaluateFlags.noArchive, "no-archive", false, "do not archive the report")
	evaluateCmd.MarkFlagRequired("profile")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	ctx := cli.SetupSignalHandler()

	prof, err := profile.LoadFile(evaluateFlags.profile)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	catalog, err := buildCatalog(cfg)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	store, err := buildAuditStore(cfg)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}
	defer store.Close()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.ListenAddress != "" {
		go func() {
			if err := collector.Serve(cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path); err != nil {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	auditLogger, err := auditlog.New(ctx, store, slog.Default(), auditlog.WithObserver(collector))
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	eng, err := engine.New(catalog, auditLogger, &engine.Config{
		RuleTimeout:    cfg.Engine.RuleTimeout,
		MaxParallel:    cfg.Engine.MaxParallel,
		ExprStepBudget: cfg.Engine.ExprStepBudget,
	}, engine.WithObserver(collector))
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	rep, err := eng.EvaluateProfile(ctx, prof)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}
	collector.RecordReport(string(rep.Summary.OverallVerdict))

	if cfg.Reports.ArchiveEnabled && !evaluateFlags.noArchive {
		if err := archiveReport(ctx, cfg.Reports.ArchivePath, rep); err != nil {
			return cli.NewCommandError("evaluate", err)
		}
	}

	format := evaluateFlags.format
	if format == "" {
		format = cfg.Reports.Format
	}
	return writeReport(rep, format, evaluateFlags.output)
}

func archiveReport(ctx context.Context, path string, rep *report.ComplianceReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	archive, err := report.NewArchive(report.ArchiveConfig{DBPath: path})
	if err != nil {
		return err
	}
	defer archive.Close()

	return archive.Save(ctx, rep)
}

func writeReport(rep *report.ComplianceReport, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json", "":
		return report.WriteJSON(w, rep)
	case "csv":
		return report.WriteCSV(w, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
