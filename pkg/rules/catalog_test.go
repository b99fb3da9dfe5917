package rules

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func validRule(id string) *Rule {
	return &Rule{
		ID:              id,
		RequirementID:   "REQ-001",
		Type:            RuleTypeAutomated,
		Title:           "risk management system exists",
		InputsNeeded:    []string{"system_profile.risk_management_system_established"},
		EvaluationLogic: "risk_management_system_established == true",
		Severity:        SeverityCritical,
	}
}

func TestNewCatalog(t *testing.T) {
	ruleSet := []*Rule{validRule("RULE-001"), validRule("RULE-002")}

	catalog, err := NewCatalog("eu_ai_act", "2024/1689", ruleSet, CatalogOptions{})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	if catalog.Regulation() != "eu_ai_act" {
		t.Errorf("Regulation() = %q", catalog.Regulation())
	}
	if catalog.Version() != "2024/1689" {
		t.Errorf("Version() = %q", catalog.Version())
	}
	if catalog.Len() != 2 {
		t.Errorf("Len() = %d, want 2", catalog.Len())
	}

	rule, ok := catalog.Rule("RULE-002")
	if !ok || rule.ID != "RULE-002" {
		t.Errorf("Rule(RULE-002) = %v, %v", rule, ok)
	}

	// Definition order survives, and the slice is a defensive copy.
	rules := catalog.Rules()
	if rules[0].ID != "RULE-001" || rules[1].ID != "RULE-002" {
		t.Errorf("Rules() out of order: %v, %v", rules[0].ID, rules[1].ID)
	}
	rules[0] = nil
	if catalog.Rules()[0] == nil {
		t.Error("Rules() does not copy the slice")
	}
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Rule)
		defect string
	}{
		{"missing id", func(r *Rule) { r.ID = "" }, "missing id"},
		{"missing requirement id", func(r *Rule) { r.RequirementID = "" }, "missing requirement_id"},
		{"missing title", func(r *Rule) { r.Title = "" }, "missing title"},
		{"unknown rule type", func(r *Rule) { r.Type = "psychic" }, "unknown rule_type"},
		{"unknown severity", func(r *Rule) { r.Severity = "fatal" }, "unknown severity"},
		{"missing logic", func(r *Rule) { r.EvaluationLogic = "" }, "missing evaluation_logic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule("RULE-001")
			tt.mutate(rule)

			_, err := NewCatalog("eu_ai_act", "2024/1689", []*Rule{rule}, CatalogOptions{})
			if err == nil {
				t.Fatal("expected error")
			}
			var catErr *CatalogError
			if !errors.As(err, &catErr) {
				t.Fatalf("expected CatalogError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.defect) {
				t.Errorf("error %q does not mention %q", err, tt.defect)
			}
		})
	}
}

func TestNewCatalogReportsAllDefects(t *testing.T) {
	first := validRule("RULE-001")
	first.Title = ""
	second := validRule("RULE-002")
	second.Severity = "fatal"

	_, err := NewCatalog("eu_ai_act", "2024/1689", []*Rule{first, second}, CatalogOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	var catErr *CatalogError
	if !errors.As(err, &catErr) {
		t.Fatalf("expected CatalogError, got %T", err)
	}
	if len(catErr.Errors) != 2 {
		t.Errorf("reported %d defects, want 2: %v", len(catErr.Errors), catErr.Errors)
	}
}

func TestNewCatalogRejectsDuplicateIDs(t *testing.T) {
	ruleSet := []*Rule{validRule("RULE-001"), validRule("RULE-001")}

	_, err := NewCatalog("eu_ai_act", "2024/1689", ruleSet, CatalogOptions{})
	if err == nil || !strings.Contains(err.Error(), "duplicate rule id") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestNewCatalogManualRulesNeedNoLogic(t *testing.T) {
	rule := validRule("RULE-001")
	rule.Type = RuleTypeManual
	rule.EvaluationLogic = ""

	catalog, err := NewCatalog("eu_ai_act", "2024/1689", []*Rule{rule}, CatalogOptions{})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	got, _ := catalog.Rule("RULE-001")
	if got.Evaluator() != nil {
		t.Error("manual rule should not resolve an evaluator")
	}
}

func TestResolveEvaluatorPrefersRuleID(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister("RULE-001", func(map[string]any) (Verdict, string, error) {
		return VerdictPass, "", nil
	})

	rule := validRule("RULE-001")
	catalog, err := NewCatalog("eu_ai_act", "2024/1689", []*Rule{rule}, CatalogOptions{Registry: registry})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	got, _ := catalog.Rule("RULE-001")
	ref := got.Evaluator()
	if ref == nil || ref.Kind != EvaluatorNamed || ref.Func == nil {
		t.Errorf("evaluator not resolved to named function: %+v", ref)
	}
}

func TestResolveEvaluatorFallsBackToExpression(t *testing.T) {
	rule := validRule("RULE-001")
	catalog, err := NewCatalog("eu_ai_act", "2024/1689", []*Rule{rule}, CatalogOptions{Registry: NewRegistry()})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	got, _ := catalog.Rule("RULE-001")
	ref := got.Evaluator()
	if ref == nil || ref.Kind != EvaluatorExpression || ref.Expression != rule.EvaluationLogic {
		t.Errorf("evaluator not resolved to expression: %+v", ref)
	}
}

func TestNewCatalogRejectsUnparseableExpressions(t *testing.T) {
	rule := validRule("RULE-001")
	rule.EvaluationLogic = "this is not ==="

	opts := CatalogOptions{
		CheckExpression: func(expr string) error {
			return fmt.Errorf("parse error at offset 0")
		},
	}
	_, err := NewCatalog("eu_ai_act", "2024/1689", []*Rule{rule}, opts)
	if err == nil || !strings.Contains(err.Error(), "not a valid expression") {
		t.Errorf("expected expression rejection, got %v", err)
	}
}

func TestCatalogReplace(t *testing.T) {
	catalog, err := NewCatalog("eu_ai_act", "2024/1689", []*Rule{validRule("RULE-001")}, CatalogOptions{})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	next, err := NewCatalog("eu_ai_act", "2024/1690", []*Rule{validRule("RULE-001"), validRule("RULE-002")}, CatalogOptions{})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	catalog.Replace(next)
	if catalog.Len() != 2 {
		t.Errorf("Len() after Replace = %d, want 2", catalog.Len())
	}
	if catalog.Version() != "2024/1690" {
		t.Errorf("Version() after Replace = %q", catalog.Version())
	}
}
