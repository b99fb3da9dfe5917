package rules

import (
	"strings"
	"testing"
)

func passEvaluator(map[string]any) (Verdict, string, error) {
	return VerdictPass, "", nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("check_a", passEvaluator); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if fn, ok := r.Lookup("check_a"); !ok || fn == nil {
		t.Error("registered evaluator not found")
	}
	if _, ok := r.Lookup("check_b"); ok {
		t.Error("Lookup() found unregistered evaluator")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryRejectsBadRegistrations(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("check_a", passEvaluator); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name    string
		regName string
		fn      EvaluatorFunc
		want    string
	}{
		{"duplicate name", "check_a", passEvaluator, "already registered"},
		{"empty name", "", passEvaluator, "cannot be empty"},
		{"nil func", "check_b", nil, "cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.regName, tt.fn)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Register() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(name, passEvaluator); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("check_a", passEvaluator)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	r.MustRegister("check_a", passEvaluator)
}
