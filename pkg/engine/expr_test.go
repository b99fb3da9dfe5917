package engine

import (
	"errors"
	"testing"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"single equals", "a = true"},
		{"unterminated string", "name == 'acme"},
		{"dangling operator", "a =="},
		{"unbalanced paren", "(a == true"},
		{"unbalanced bracket", "a in [1, 2"},
		{"trailing garbage", "a == true b"},
		{"lone ampersand", "a & b"},
		{"bare keyword", "a == in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpression(tt.src)
			if err == nil {
				t.Fatalf("CheckExpression(%q) accepted invalid input", tt.src)
			}
			var exprErr *ExpressionError
			if !errors.As(err, &exprErr) {
				t.Errorf("expected ExpressionError, got %T", err)
			}
		})
	}
}

func TestEval(t *testing.T) {
	vars := map[string]any{
		"is_high_risk":        true,
		"adversarial_testing": false,
		"provider_name":       "Acme Health",
		"accuracy":            0.97,
		"dataset_count":       float64(3),
		"capabilities":        []any{"decision_log", "access_log"},
	}

	tests := []struct {
		name string
		src  string
		want any
	}{
		{"equality true", "is_high_risk == true", true},
		{"equality false", "adversarial_testing == true", false},
		{"inequality", "provider_name != 'Other Corp'", true},
		{"string equality", `provider_name == "Acme Health"`, true},
		{"ordering", "accuracy >= 0.95", true},
		{"ordering false", "dataset_count > 5", false},
		{"numeric equality across types", "dataset_count == 3", true},
		{"membership", "'decision_log' in capabilities", true},
		{"membership miss", "'audit_log' in capabilities", false},
		{"membership list literal", "dataset_count in [1, 2, 3]", true},
		{"conjunction", "is_high_risk and accuracy >= 0.95", true},
		{"disjunction", "adversarial_testing or is_high_risk", true},
		{"negation", "not adversarial_testing", true},
		{"symbolic aliases", "!adversarial_testing && is_high_risk", true},
		{"grouping", "(adversarial_testing or is_high_risk) and true", true},
		{"null comparison", "provider_name != null", true},
		{"bare identifier", "is_high_risk", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Compile(tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.src, err)
			}
			got, err := expr.Eval(vars, 10000)
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	vars := map[string]any{
		"is_high_risk": true,
		"name":         "acme",
	}

	tests := []struct {
		name string
		src  string
	}{
		{"unbound identifier", "unknown_field == true"},
		{"not on non boolean", "not name"},
		{"and on non boolean", "name and is_high_risk"},
		{"ordering on string", "name > 3"},
		{"in on non list", "'a' in name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Compile(tt.src)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.src, err)
			}
			if _, err := expr.Eval(vars, 10000); err == nil {
				t.Errorf("Eval(%q) expected error", tt.src)
			}
		})
	}
}

func TestEvalShortCircuits(t *testing.T) {
	// The right operand is unbound, so reaching it would error.
	vars := map[string]any{"flag": false}

	expr, err := Compile("flag and missing == true")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	got, err := expr.Eval(vars, 10000)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got != false {
		t.Errorf("Eval() = %v, want false", got)
	}
}

func TestEvalStepBudget(t *testing.T) {
	expr, err := Compile("a == true and b == true and c == true")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	vars := map[string]any{"a": true, "b": true, "c": true}

	if _, err := expr.Eval(vars, 10000); err != nil {
		t.Fatalf("generous budget failed: %v", err)
	}

	_, err = expr.Eval(vars, 2)
	var exprErr *ExpressionError
	if !errors.As(err, &exprErr) {
		t.Fatalf("expected ExpressionError, got %v", err)
	}
}
