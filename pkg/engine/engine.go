// Package engine evaluates rule catalogs against profile snapshots.
//
// Every rule resolves through the same precondition: if any declared
// input path is absent from the snapshot, the verdict is
// not_applicable and no evaluator runs. Evaluator errors and timeouts
// never fail a run, they downgrade the verdict to manual_review.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"veridex-hq/callisto/pkg/audit"
	auditlog "veridex-hq/callisto/pkg/audit/logger"
	"veridex-hq/callisto/pkg/profile"
	"veridex-hq/callisto/pkg/report"
	"veridex-hq/callisto/pkg/rules"
)

// Observer receives per-rule evaluation outcomes, typically wired to
// metrics. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveEvaluation(ruleID string, verdict rules.Verdict, duration time.Duration)
}

// Engine evaluates a rule catalog against profile snapshots. An Engine
// is safe for concurrent use.
type Engine struct {
	catalog  *rules.Catalog
	auditLog *auditlog.Logger
	config   *Config
	logger   *slog.Logger
	observer Observer

	exprMu    sync.RWMutex
	exprCache map[string]*Expr
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver wires per-rule outcome observation, typically metrics.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an evaluation engine. The audit logger is mandatory:
// evaluations that cannot be audited must not run.
func New(catalog *rules.Catalog, auditLog *auditlog.Logger, config *Config, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("engine requires a catalog")
	}
	if auditLog == nil {
		return nil, fmt.Errorf("engine requires an audit logger")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	e := &Engine{
		catalog:   catalog,
		auditLog:  auditLog,
		config:    config,
		logger:    slog.Default(),
		exprCache: make(map[string]*Expr),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "engine")
	return e, nil
}

// Catalog returns the catalog this engine evaluates.
func (e *Engine) Catalog() *rules.Catalog {
	return e.catalog
}

// EvaluateProfile evaluates every catalog rule against the profile and
// returns the aggregated compliance report. Results keep catalog order
// regardless of evaluation concurrency.
//
// Each rule's outcome and the run itself are appended to the audit
// chain. A failed append aborts the run: an unaudited verdict is worse
// than no verdict.
func (e *Engine) EvaluateProfile(ctx context.Context, prof *profile.SystemProfile) (*report.ComplianceReport, error) {
	if prof == nil {
		return nil, fmt.Errorf("profile cannot be nil")
	}

	snapshot, err := prof.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot profile: %w", err)
	}
	inputHash, err := audit.HashContent(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to hash profile snapshot: %w", err)
	}

	catalogRules := e.catalog.Rules()
	e.logger.Info("starting evaluation",
		"system", prof.SystemName,
		"regulation", e.catalog.Regulation(),
		"rules", len(catalogRules),
	)
	started := time.Now()

	results := make([]rules.RuleResult, len(catalogRules))
	durations := make([]time.Duration, len(catalogRules))

	workers := e.config.MaxParallel
	if workers > len(catalogRules) {
		workers = len(catalogRules)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ruleStarted := time.Now()
				results[i] = e.EvaluateRule(ctx, catalogRules[i], snapshot)
				durations[i] = time.Since(ruleStarted)
			}
		}()
	}
	for i := range catalogRules {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Audit appends run after the join, in catalog order, so the chain
	// layout is deterministic for a given catalog.
	for i, result := range results {
		if e.observer != nil {
			e.observer.ObserveEvaluation(result.RuleID, result.Verdict, durations[i])
		}

		outputHash, err := audit.HashContent(result)
		if err != nil {
			return nil, fmt.Errorf("failed to hash result for rule %s: %w", result.RuleID, err)
		}
		entry := audit.NewEntry(audit.StageEvaluate, "rule_evaluated", "engine")
		entry.TargetIDs = []string{result.RuleID}
		entry.InputHash = inputHash
		entry.OutputHash = outputHash
		entry.Verdict = string(result.Verdict)
		if err := e.auditLog.Append(ctx, entry); err != nil {
			return nil, fmt.Errorf("evaluation aborted, audit append failed: %w", err)
		}
	}

	rep := report.Build(prof.SystemName, prof.ProviderName, e.catalog.Regulation(), e.catalog.Version(), results)

	summaryHash, err := audit.HashContent(rep.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to hash report summary: %w", err)
	}
	runEntry := audit.NewEntry(audit.StageEvaluate, "evaluation_completed", "engine")
	runEntry.TargetIDs = []string{rep.ID}
	runEntry.InputHash = inputHash
	runEntry.OutputHash = summaryHash
	runEntry.Verdict = string(rep.Summary.OverallVerdict)
	runEntry.Details = map[string]any{
		"system_name":      prof.SystemName,
		"regulation":       e.catalog.Regulation(),
		"total_rules":      rep.Summary.TotalRules,
		"passed":           rep.Summary.Passed,
		"failed":           rep.Summary.Failed,
		"not_applicable":   rep.Summary.NotApplicable,
		"manual_review":    rep.Summary.ManualReview,
		"compliance_score": rep.Summary.ComplianceScore,
	}
	if err := e.auditLog.Append(ctx, runEntry); err != nil {
		return nil, fmt.Errorf("evaluation aborted, audit append failed: %w", err)
	}

	e.logger.Info("evaluation completed",
		"system", prof.SystemName,
		"report_id", rep.ID,
		"verdict", rep.Summary.OverallVerdict,
		"score", rep.Summary.ComplianceScore,
		"duration", time.Since(started),
	)
	return rep, nil
}

// EvaluateRule evaluates a single rule against a snapshot. It never
// returns an error: every failure mode maps to a verdict.
func (e *Engine) EvaluateRule(ctx context.Context, rule *rules.Rule, snapshot map[string]any) rules.RuleResult {
	result := rules.RuleResult{
		RuleID:        rule.ID,
		RequirementID: rule.RequirementID,
		Title:         rule.Title,
		Severity:      rule.Severity,
		Remediation:   rule.Remediation,
		ArticleRef:    rule.ArticleRef(),
		Citations:     rule.Citations,
	}

	if rule.Type == rules.RuleTypeManual {
		result.Verdict = rules.VerdictManualReview
		result.Details = "rule requires human assessment"
		return result
	}

	vars, missing := profile.ResolveAll(snapshot, rule.InputsNeeded)
	if len(missing) > 0 {
		sort.Strings(missing)
		result.Verdict = rules.VerdictNotApplicable
		result.Details = "missing inputs: " + strings.Join(missing, ", ")
		return result
	}

	verdict, detail, err := e.dispatch(ctx, rule, snapshot, vars)
	if err != nil {
		e.logger.Warn("rule evaluation downgraded to manual review",
			"rule_id", rule.ID,
			"error", err,
		)
		result.Verdict = rules.VerdictManualReview
		result.Details = fmt.Sprintf("automated evaluation failed: %v", err)
		return result
	}

	result.Verdict = verdict
	result.Details = detail
	return result
}

// dispatch runs the rule's resolved evaluator under the rule timeout.
func (e *Engine) dispatch(ctx context.Context, rule *rules.Rule, snapshot, vars map[string]any) (rules.Verdict, string, error) {
	ref := rule.Evaluator()
	if ref == nil {
		return "", "", &EvaluationError{RuleID: rule.ID, Cause: fmt.Errorf("rule has no resolved evaluator")}
	}

	type outcome struct {
		verdict rules.Verdict
		detail  string
		err     error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("evaluator panicked: %v", r)}
			}
		}()

		switch ref.Kind {
		case rules.EvaluatorNamed:
			verdict, detail, err := ref.Func(snapshot)
			ch <- outcome{verdict: verdict, detail: detail, err: err}

		case rules.EvaluatorExpression:
			verdict, detail, err := e.evalExpression(ref.Expression, vars)
			ch <- outcome{verdict: verdict, detail: detail, err: err}

		default:
			ch <- outcome{err: fmt.Errorf("unknown evaluator kind %d", ref.Kind)}
		}
	}()

	timer := time.NewTimer(e.config.RuleTimeout)
	defer timer.Stop()

	select {
	case out := <-ch:
		if out.err != nil {
			return "", "", &EvaluationError{RuleID: rule.ID, Cause: out.err}
		}
		return out.verdict, out.detail, nil
	case <-timer.C:
		return "", "", &EvaluationError{RuleID: rule.ID, Cause: fmt.Errorf("evaluation timed out after %s", e.config.RuleTimeout)}
	case <-ctx.Done():
		return "", "", &EvaluationError{RuleID: rule.ID, Cause: ctx.Err()}
	}
}

// evalExpression runs an expression fallback. The expression must yield
// a boolean, which maps to pass or fail.
func (e *Engine) evalExpression(src string, vars map[string]any) (rules.Verdict, string, error) {
	expr, err := e.compiled(src)
	if err != nil {
		return "", "", err
	}

	value, err := expr.Eval(vars, e.config.ExprStepBudget)
	if err != nil {
		return "", "", err
	}

	ok, isBool := value.(bool)
	if !isBool {
		return "", "", fmt.Errorf("expression yielded %T, want bool", value)
	}
	if ok {
		return rules.VerdictPass, "", nil
	}
	return rules.VerdictFail, "expression evaluated to false", nil
}

// compiled returns the cached compilation of src.
func (e *Engine) compiled(src string) (*Expr, error) {
	e.exprMu.RLock()
	expr, ok := e.exprCache[src]
	e.exprMu.RUnlock()
	if ok {
		return expr, nil
	}

	expr, err := Compile(src)
	if err != nil {
		return nil, err
	}

	e.exprMu.Lock()
	e.exprCache[src] = expr
	e.exprMu.Unlock()
	return expr, nil
}
