package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	auditlog "veridex-hq/callisto/pkg/audit/logger"
	"veridex-hq/callisto/pkg/audit/storage"
	"veridex-hq/callisto/pkg/cli"
	"veridex-hq/callisto/pkg/config"
	"veridex-hq/callisto/pkg/engine"
	"veridex-hq/callisto/pkg/rules"
)

var rulesFlags struct {
	format string
	watch  bool
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and lint the rule catalog",
	Long: `Inspect and lint the configured rule catalog.

Subcommands:
  list  - List catalog rules
  lint  - Replay each rule's shipped test cases through the engine

Examples:
  veridex rules list
  veridex rules lint
  veridex rules lint --watch`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog rules",
	RunE:  runRulesList,
}

var rulesLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate catalog rules against their test cases",
	Long: `Replay each rule's shipped test cases through the evaluation engine
and report any verdict that does not match the expected result.

Linting catches drift between a rule's description and its evaluation
logic before the catalog reaches production.

With --watch and a file catalog source, linting re-runs whenever the
catalog file changes.`,
	RunE: runRulesLint,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesLintCmd)

	rulesListCmd.Flags().StringVar(&rulesFlags.format, "format", "text", "output format: text, json")
	rulesLintCmd.Flags().BoolVar(&rulesFlags.watch, "watch", false, "re-lint on catalog file changes")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	catalog, err := buildCatalog(cfg)
	if err != nil {
		return cli.NewCommandError("rules list", err)
	}

	if rulesFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog.Rules())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEVERITY\tTYPE\tTITLE")
	for _, rule := range catalog.Rules() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rule.ID, rule.Severity, rule.Type, rule.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%s %s: %d rules\n", catalog.Regulation(), catalog.Version(), catalog.Len())
	return nil
}

// lintMismatch is one test case whose replayed verdict diverged.
type lintMismatch struct {
	RuleID   string        `json:"rule_id"`
	CaseID   string        `json:"case_id"`
	Expected rules.Verdict `json:"expected"`
	Got      rules.Verdict `json:"got"`
	Details  string        `json:"details,omitempty"`
}

func runRulesLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	ctx := cli.SetupSignalHandler()

	if !rulesFlags.watch {
		return lintOnce(ctx, cfg)
	}

	if cfg.Catalog.Source != "file" {
		return cli.NewConfigError("catalog.source", "--watch requires a file catalog source")
	}

	if err := lintOnce(ctx, cfg); err != nil {
		// Watch mode keeps running on lint failures so the next save
		// can fix them.
		fmt.Fprintln(os.Stderr, err)
	}

	watcher, err := rules.NewWatcher(&rules.WatcherConfig{
		Dir:              filepath.Dir(cfg.Catalog.Path),
		DebounceInterval: cfg.Catalog.DebounceDelay,
	}, slog.Default())
	if err != nil {
		return cli.NewCommandError("rules lint", err)
	}
	defer watcher.Stop()

	return watcher.Watch(ctx, func() error {
		if err := lintOnce(ctx, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		return nil
	})
}

func lintOnce(ctx context.Context, cfg *config.Config) error {
	catalog, err := buildCatalog(cfg)
	if err != nil {
		return cli.NewCommandError("rules lint", err)
	}

	// The lint engine audits into a throwaway in-memory chain; replayed
	// test cases are not operational events.
	auditLogger, err := auditlog.New(ctx, storage.NewMemoryStore(), slog.Default())
	if err != nil {
		return cli.NewCommandError("rules lint", err)
	}
	eng, err := engine.New(catalog, auditLogger, &engine.Config{
		RuleTimeout:    cfg.Engine.RuleTimeout,
		MaxParallel:    cfg.Engine.MaxParallel,
		ExprStepBudget: cfg.Engine.ExprStepBudget,
	})
	if err != nil {
		return cli.NewCommandError("rules lint", err)
	}

	var mismatches []lintMismatch
	cases := 0
	for _, rule := range catalog.Rules() {
		for _, tc := range rule.TestCases {
			cases++
			result := eng.EvaluateRule(ctx, rule, tc.InputData)
			if result.Verdict != tc.Expected {
				mismatches = append(mismatches, lintMismatch{
					RuleID:   rule.ID,
					CaseID:   tc.ID,
					Expected: tc.Expected,
					Got:      result.Verdict,
					Details:  result.Details,
				})
			}
		}
	}

	if len(mismatches) == 0 {
		fmt.Printf("catalog ok: %d rules, %d test cases\n", catalog.Len(), cases)
		return nil
	}

	fmt.Printf("catalog FAILED: %d of %d test cases diverged\n", len(mismatches), cases)
	for _, m := range mismatches {
		fmt.Printf("  - %s case %s: expected %s, got %s", m.RuleID, m.CaseID, m.Expected, m.Got)
		if m.Details != "" {
			fmt.Printf(" (%s)", m.Details)
		}
		fmt.Println()
	}
	return fmt.Errorf("catalog lint failed")
}
