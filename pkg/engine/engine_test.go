package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"veridex-hq/callisto/pkg/audit"
	auditlog "veridex-hq/callisto/pkg/audit/logger"
	"veridex-hq/callisto/pkg/audit/storage"
	"veridex-hq/callisto/pkg/profile"
	"veridex-hq/callisto/pkg/report"
	"veridex-hq/callisto/pkg/rules"
)

func testCatalog(t *testing.T, ruleSet []*rules.Rule, registry *rules.Registry) *rules.Catalog {
	t.Helper()
	catalog, err := rules.NewCatalog("eu_ai_act", "2024/1689", ruleSet, rules.CatalogOptions{
		Registry:        registry,
		CheckExpression: CheckExpression,
	})
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return catalog
}

func testEngine(t *testing.T, catalog *rules.Catalog, config *Config) (*Engine, storage.Store) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	l, err := auditlog.New(ctx, store, nil)
	if err != nil {
		t.Fatalf("failed to create audit logger: %v", err)
	}
	eng, err := New(catalog, l, config)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return eng, store
}

func exprRule(id, logic string, inputs ...string) *rules.Rule {
	return &rules.Rule{
		ID:              id,
		RequirementID:   "REQ-" + id,
		Type:            rules.RuleTypeAutomated,
		Title:           "check " + id,
		InputsNeeded:    inputs,
		EvaluationLogic: logic,
		Severity:        rules.SeverityHigh,
	}
}

func TestNewRequiresCatalogAndAuditLog(t *testing.T) {
	catalog := testCatalog(t, nil, nil)
	l, err := auditlog.New(context.Background(), storage.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("failed to create audit logger: %v", err)
	}

	if _, err := New(nil, l, nil); err == nil {
		t.Error("expected error for nil catalog")
	}
	if _, err := New(catalog, nil, nil); err == nil {
		t.Error("expected error for nil audit logger")
	}
	if _, err := New(catalog, l, &Config{RuleTimeout: -1}); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestEvaluateRuleManual(t *testing.T) {
	rule := &rules.Rule{
		ID:            "RULE-M",
		RequirementID: "REQ-M",
		Type:          rules.RuleTypeManual,
		Title:         "oversight procedures reviewed",
		Severity:      rules.SeverityMedium,
	}
	catalog := testCatalog(t, []*rules.Rule{rule}, nil)
	eng, _ := testEngine(t, catalog, nil)

	result := eng.EvaluateRule(context.Background(), rule, map[string]any{})
	if result.Verdict != rules.VerdictManualReview {
		t.Errorf("Verdict = %s, want manual_review", result.Verdict)
	}
	if result.Details != "rule requires human assessment" {
		t.Errorf("Details = %q", result.Details)
	}
}

func TestEvaluateRuleMissingInputs(t *testing.T) {
	rule := exprRule("RULE-NA", "b_field == true and a_field == true",
		"system_profile.extra.b_field", "system_profile.extra.a_field")
	catalog := testCatalog(t, []*rules.Rule{rule}, nil)
	eng, _ := testEngine(t, catalog, nil)

	result := eng.EvaluateRule(context.Background(), rule, map[string]any{})
	if result.Verdict != rules.VerdictNotApplicable {
		t.Fatalf("Verdict = %s, want not_applicable", result.Verdict)
	}
	// Missing paths are listed sorted so the detail is stable.
	want := "missing inputs: system_profile.extra.a_field, system_profile.extra.b_field"
	if result.Details != want {
		t.Errorf("Details = %q, want %q", result.Details, want)
	}
}

func TestEvaluateRuleExpression(t *testing.T) {
	rule := exprRule("RULE-EXPR", "is_high_risk == true", "system_profile.is_high_risk")
	catalog := testCatalog(t, []*rules.Rule{rule}, nil)
	eng, _ := testEngine(t, catalog, nil)

	snapshot := map[string]any{"is_high_risk": true}
	result := eng.EvaluateRule(context.Background(), rule, snapshot)
	if result.Verdict != rules.VerdictPass {
		t.Errorf("Verdict = %s, want pass", result.Verdict)
	}

	snapshot["is_high_risk"] = false
	result = eng.EvaluateRule(context.Background(), rule, snapshot)
	if result.Verdict != rules.VerdictFail {
		t.Errorf("Verdict = %s, want fail", result.Verdict)
	}
	if result.Details != "expression evaluated to false" {
		t.Errorf("Details = %q", result.Details)
	}
}

func TestEvaluateRuleNamedEvaluator(t *testing.T) {
	registry := rules.NewRegistry()
	registry.MustRegister("RULE-NAMED", func(snapshot map[string]any) (rules.Verdict, string, error) {
		if snapshot["uses_training_data"] != true {
			return rules.VerdictNotApplicable, "system does not use training data", nil
		}
		return rules.VerdictPass, "", nil
	})

	rule := exprRule("RULE-NAMED", "ignored", "system_profile.uses_training_data")
	catalog := testCatalog(t, []*rules.Rule{rule}, registry)
	eng, _ := testEngine(t, catalog, nil)

	// Named evaluators decide their own preconditions and may return
	// any verdict, not just pass or fail.
	result := eng.EvaluateRule(context.Background(), rule, map[string]any{"uses_training_data": false})
	if result.Verdict != rules.VerdictNotApplicable {
		t.Errorf("Verdict = %s, want not_applicable", result.Verdict)
	}
	if result.Details != "system does not use training data" {
		t.Errorf("Details = %q", result.Details)
	}
}

func TestEvaluateRuleFailureModes(t *testing.T) {
	registry := rules.NewRegistry()
	registry.MustRegister("RULE-ERR", func(map[string]any) (rules.Verdict, string, error) {
		return "", "", errors.New("evidence service unreachable")
	})
	registry.MustRegister("RULE-PANIC", func(map[string]any) (rules.Verdict, string, error) {
		panic("index out of range")
	})
	registry.MustRegister("RULE-SLOW", func(map[string]any) (rules.Verdict, string, error) {
		time.Sleep(200 * time.Millisecond)
		return rules.VerdictPass, "", nil
	})

	ruleSet := []*rules.Rule{
		exprRule("RULE-ERR", "ignored", "system_profile.is_high_risk"),
		exprRule("RULE-PANIC", "ignored", "system_profile.is_high_risk"),
		exprRule("RULE-SLOW", "ignored", "system_profile.is_high_risk"),
	}
	catalog := testCatalog(t, ruleSet, registry)

	config := DefaultConfig()
	config.RuleTimeout = 50 * time.Millisecond
	eng, _ := testEngine(t, catalog, config)

	snapshot := map[string]any{"is_high_risk": true}
	tests := []struct {
		name   string
		ruleID string
		detail string
	}{
		{"evaluator error", "RULE-ERR", "evidence service unreachable"},
		{"evaluator panic", "RULE-PANIC", "panicked"},
		{"evaluator timeout", "RULE-SLOW", "timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, _ := catalog.Rule(tt.ruleID)
			result := eng.EvaluateRule(context.Background(), rule, snapshot)
			if result.Verdict != rules.VerdictManualReview {
				t.Errorf("Verdict = %s, want manual_review", result.Verdict)
			}
			if !strings.Contains(result.Details, tt.detail) {
				t.Errorf("Details = %q, want mention of %q", result.Details, tt.detail)
			}
		})
	}
}

func TestEvaluateRuleCancelledContext(t *testing.T) {
	registry := rules.NewRegistry()
	registry.MustRegister("RULE-SLOW", func(map[string]any) (rules.Verdict, string, error) {
		time.Sleep(time.Second)
		return rules.VerdictPass, "", nil
	})
	rule := exprRule("RULE-SLOW", "ignored", "system_profile.is_high_risk")
	catalog := testCatalog(t, []*rules.Rule{rule}, registry)
	eng, _ := testEngine(t, catalog, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := eng.EvaluateRule(ctx, rule, map[string]any{"is_high_risk": true})
	if result.Verdict != rules.VerdictManualReview {
		t.Errorf("Verdict = %s, want manual_review", result.Verdict)
	}
}

func TestEvaluateProfile(t *testing.T) {
	ruleSet := []*rules.Rule{
		exprRule("RULE-001", "is_high_risk == true", "system_profile.is_high_risk"),
		exprRule("RULE-002", "adversarial_testing_performed == true", "system_profile.adversarial_testing_performed"),
		exprRule("RULE-003", "iso_42001_certified == true", "system_profile.extra.iso_42001_certified"),
	}
	catalog := testCatalog(t, ruleSet, nil)
	eng, store := testEngine(t, catalog, nil)

	prof := &profile.SystemProfile{
		SystemName:      "triage-assist",
		ProviderName:    "Acme Health",
		IntendedPurpose: "clinical triage support",
		IsHighRisk:      true,
	}

	rep, err := eng.EvaluateProfile(context.Background(), prof)
	if err != nil {
		t.Fatalf("EvaluateProfile() error = %v", err)
	}

	if len(rep.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(rep.Results))
	}
	// Results keep catalog order regardless of worker scheduling.
	for i, want := range []string{"RULE-001", "RULE-002", "RULE-003"} {
		if rep.Results[i].RuleID != want {
			t.Errorf("result %d = %s, want %s", i, rep.Results[i].RuleID, want)
		}
	}
	if rep.Results[0].Verdict != rules.VerdictPass {
		t.Errorf("RULE-001 verdict = %s, want pass", rep.Results[0].Verdict)
	}
	if rep.Results[1].Verdict != rules.VerdictFail {
		t.Errorf("RULE-002 verdict = %s, want fail", rep.Results[1].Verdict)
	}
	if rep.Results[2].Verdict != rules.VerdictNotApplicable {
		t.Errorf("RULE-003 verdict = %s, want not_applicable", rep.Results[2].Verdict)
	}

	if rep.Summary.OverallVerdict != report.VerdictPartialCompliance {
		t.Errorf("OverallVerdict = %s, want partial_compliance", rep.Summary.OverallVerdict)
	}

	// One chained entry per rule plus the run entry, in catalog order.
	ctx := context.Background()
	entries, err := store.List(ctx, audit.Query{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("audit chain has %d entries, want 4", len(entries))
	}
	for i, want := range []string{"RULE-001", "RULE-002", "RULE-003"} {
		if entries[i].Action != "rule_evaluated" || entries[i].TargetIDs[0] != want {
			t.Errorf("entry %d = %s %v", i, entries[i].Action, entries[i].TargetIDs)
		}
		if entries[i].InputHash == "" || entries[i].OutputHash == "" {
			t.Errorf("entry %d missing content hashes", i)
		}
	}
	run := entries[3]
	if run.Action != "evaluation_completed" {
		t.Fatalf("last entry action = %s", run.Action)
	}
	if run.TargetIDs[0] != rep.ID {
		t.Errorf("run entry target = %v, want report id %s", run.TargetIDs, rep.ID)
	}
	if run.Verdict != string(rep.Summary.OverallVerdict) {
		t.Errorf("run entry verdict = %s", run.Verdict)
	}
}

// failingStore rejects every append.
type failingStore struct {
	*storage.MemoryStore
}

func (f *failingStore) Append(ctx context.Context, e *audit.Entry) error {
	return errors.New("disk full")
}

func TestEvaluateProfileAbortsOnAuditFailure(t *testing.T) {
	catalog := testCatalog(t, []*rules.Rule{
		exprRule("RULE-001", "is_high_risk == true", "system_profile.is_high_risk"),
	}, nil)

	ctx := context.Background()
	l, err := auditlog.New(ctx, &failingStore{storage.NewMemoryStore()}, nil)
	if err != nil {
		t.Fatalf("failed to create audit logger: %v", err)
	}
	eng, err := New(catalog, l, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	prof := &profile.SystemProfile{
		SystemName:      "triage-assist",
		ProviderName:    "Acme Health",
		IntendedPurpose: "clinical triage support",
	}
	if _, err := eng.EvaluateProfile(ctx, prof); err == nil {
		t.Error("expected error when audit append fails")
	}
}
