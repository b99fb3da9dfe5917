package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"veridex-hq/callisto/pkg/audit"
	auditlog "veridex-hq/callisto/pkg/audit/logger"
	"veridex-hq/callisto/pkg/audit/verifier"
	"veridex-hq/callisto/pkg/cli"
	"veridex-hq/callisto/pkg/telemetry/metrics"
)

var auditFlags struct {
	stage   string
	action  string
	actor   string
	verdict string
	from    string
	to      string
	limit   int
	offset  int
	format  string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and verify the audit chain",
	Long: `Inspect and verify the hash-chained audit log.

Subcommands:
  list    - List audit entries with filters
  verify  - Verify the full chain end to end
  watch   - Run scheduled verification until interrupted

Examples:
  # List evaluation entries
  veridex audit list --stage evaluate --limit 50

  # Verify chain integrity
  veridex audit verify`,
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit entries",
	Long: `List audit entries in append order with optional filters.

Examples:
  # All entries for one actor
  veridex audit list --actor engine

  # Failed rule outcomes as JSON
  veridex audit list --verdict fail --format json`,
	RunE: runAuditList,
}

var auditWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scheduled chain verification",
	Long: `Run full chain verification on the configured cron schedule until
interrupted. Each pass is appended to the chain, and defects are logged
as errors so an alerting pipeline can pick them up.

Example:
  # Verify daily at 3 AM (the default schedule)
  veridex audit watch`,
	RunE: runAuditWatch,
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify audit chain integrity",
	Long: `Recompute every entry hash and check the chain linkage from the
genesis hash to the tail. All defects are reported, not just the first.

The verification pass itself is appended to the chain.`,
	RunE: runAuditVerify,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd, auditVerifyCmd, auditWatchCmd)

	auditListCmd.Flags().StringVar(&auditFlags.stage, "stage", "", "filter by stage (ingest, decompose, generate, evaluate, audit)")
	auditListCmd.Flags().StringVar(&auditFlags.action, "action", "", "filter by action")
	auditListCmd.Flags().StringVar(&auditFlags.actor, "actor", "", "filter by actor")
	auditListCmd.Flags().StringVar(&auditFlags.verdict, "verdict", "", "filter by verdict")
	auditListCmd.Flags().StringVar(&auditFlags.from, "from", "", "earliest timestamp, RFC 3339 (inclusive)")
	auditListCmd.Flags().StringVar(&auditFlags.to, "to", "", "latest timestamp, RFC 3339 (inclusive)")
	auditListCmd.Flags().IntVar(&auditFlags.limit, "limit", 100, "max results")
	auditListCmd.Flags().IntVar(&auditFlags.offset, "offset", 0, "pagination offset")
	auditListCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json")
}

func runAuditList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	ctx := cli.SetupSignalHandler()

	store, err := buildAuditStore(cfg)
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}
	defer store.Close()

	query := audit.Query{
		Stage:   audit.Stage(auditFlags.stage),
		Action:  auditFlags.action,
		Actor:   auditFlags.actor,
		Verdict: auditFlags.verdict,
		Limit:   auditFlags.limit,
		Offset:  auditFlags.offset,
	}
	if auditFlags.from != "" {
		query.From, err = time.Parse(time.RFC3339, auditFlags.from)
		if err != nil {
			return cli.NewConfigError("from", "not a valid RFC 3339 timestamp")
		}
	}
	if auditFlags.to != "" {
		query.To, err = time.Parse(time.RFC3339, auditFlags.to)
		if err != nil {
			return cli.NewConfigError("to", "not a valid RFC 3339 timestamp")
		}
	}

	entries, err := store.List(ctx, query)
	if err != nil {
		return cli.NewCommandError("audit list", err)
	}

	if auditFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tSTAGE\tACTION\tACTOR\tVERDICT\tTARGETS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Stage, e.Action, e.Actor, e.Verdict, len(e.TargetIDs),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d entries\n", len(entries))
	return nil
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	ctx := cli.SetupSignalHandler()

	store, err := buildAuditStore(cfg)
	if err != nil {
		return cli.NewCommandError("audit verify", err)
	}
	defer store.Close()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	result, err := verifier.Verify(ctx, store)
	if err != nil {
		return cli.NewCommandError("audit verify", err)
	}
	collector.RecordChainVerification(result.IsValid)

	// The verification pass is itself an audited event.
	auditLogger, err := auditlog.New(ctx, store, slog.Default(), auditlog.WithObserver(collector))
	if err != nil {
		return cli.NewCommandError("audit verify", err)
	}
	verdict := "valid"
	if !result.IsValid {
		verdict = "invalid"
	}
	entry := audit.NewEntry(audit.StageAudit, "chain_verified", "cli")
	entry.Verdict = verdict
	entry.Details = map[string]any{
		"total_entries": result.TotalEntries,
		"defects":       len(result.Errors),
	}
	if err := auditLogger.Append(ctx, entry); err != nil {
		return cli.NewCommandError("audit verify", err)
	}

	if result.IsValid {
		fmt.Printf("chain valid: %d entries\n", result.TotalEntries)
		return nil
	}

	fmt.Printf("chain INVALID: %d entries, %d defects\n", result.TotalEntries, len(result.Errors))
	for _, defect := range result.Errors {
		fmt.Printf("  - %s\n", defect.Error())
	}
	return fmt.Errorf("audit chain verification failed")
}

func runAuditWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	ctx := cli.SetupSignalHandler()

	if cfg.Audit.VerificationSchedule == "" {
		return cli.NewConfigError("audit.verification_schedule", "no schedule configured")
	}

	store, err := buildAuditStore(cfg)
	if err != nil {
		return cli.NewCommandError("audit watch", err)
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
		return cli.NewCommandError("audit watch", err)
	}

	scheduler := verifier.NewScheduler(store, cfg.Audit.VerificationSchedule, func(result *verifier.Result) {
		collector.RecordChainVerification(result.IsValid)
		verdict := "valid"
		if !result.IsValid {
			verdict = "invalid"
		}
		entry := audit.NewEntry(audit.StageAudit, "chain_verified", "scheduler")
		entry.Verdict = verdict
		entry.Details = map[string]any{
			"total_entries": result.TotalEntries,
			"defects":       len(result.Errors),
		}
		if err := auditLogger.Append(ctx, entry); err != nil {
			slog.Error("failed to audit verification pass", "error", err)
		}
	})
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("audit watch", err)
	}

	if next := scheduler.NextRun(); next != nil {
		fmt.Printf("scheduled verification started, next run %s\n", next.UTC().Format(time.RFC3339))
	}

	<-ctx.Done()
	scheduler.Stop()
	return nil
}
