package verifier

import (
	"context"
	"testing"

	"veridex-hq/callisto/pkg/audit"
	auditlog "veridex-hq/callisto/pkg/audit/logger"
	"veridex-hq/callisto/pkg/audit/storage"
)

func buildChain(t *testing.T, n int) (storage.Store, []*audit.Entry) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	l, err := auditlog.New(ctx, store, nil)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for i := 0; i < n; i++ {
		entry := audit.NewEntry(audit.StageEvaluate, "rule_evaluated", "engine")
		if err := l.Append(ctx, entry); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	entries, err := store.List(ctx, audit.Query{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	return store, entries
}

func TestVerifyValidChain(t *testing.T) {
	store, _ := buildChain(t, 5)

	result, err := Verify(context.Background(), store)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !result.IsValid {
		t.Errorf("valid chain reported invalid: %v", result.Errors)
	}
	if result.TotalEntries != 5 {
		t.Errorf("TotalEntries = %d, want 5", result.TotalEntries)
	}
}

func TestVerifyEmptyChain(t *testing.T) {
	result := VerifyEntries(nil)
	if !result.IsValid {
		t.Error("empty chain must be valid")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	_, entries := buildChain(t, 4)

	// Alter a field without recomputing the hash.
	entries[2].Verdict = "tampered"

	result := VerifyEntries(entries)
	if result.IsValid {
		t.Fatal("tampered chain reported valid")
	}
	if !hasKindAt(result, KindHashMismatch, 2) {
		t.Errorf("expected hash_mismatch at index 2, got %v", result.Errors)
	}
}

func TestVerifyDetectsRemoval(t *testing.T) {
	_, entries := buildChain(t, 4)

	// Drop an interior entry; the successor's previous_hash dangles.
	truncated := append(entries[:1], entries[2:]...)

	result := VerifyEntries(truncated)
	if result.IsValid {
		t.Fatal("chain with removed entry reported valid")
	}
	if !hasKindAt(result, KindBrokenLink, 1) {
		t.Errorf("expected broken_link at index 1, got %v", result.Errors)
	}
}

func TestVerifyDetectsReordering(t *testing.T) {
	_, entries := buildChain(t, 4)

	entries[1], entries[2] = entries[2], entries[1]

	result := VerifyEntries(entries)
	if result.IsValid {
		t.Fatal("reordered chain reported valid")
	}
	found := false
	for _, e := range result.Errors {
		if e.Kind == KindBrokenLink {
			found = true
		}
	}
	if !found {
		t.Errorf("expected broken_link errors, got %v", result.Errors)
	}
}

func TestVerifyDetectsInvalidGenesis(t *testing.T) {
	_, entries := buildChain(t, 3)

	result := VerifyEntries(entries[1:])
	if result.IsValid {
		t.Fatal("chain without genesis reported valid")
	}
	if !hasKindAt(result, KindInvalidGenesis, 0) {
		t.Errorf("expected invalid_genesis at index 0, got %v", result.Errors)
	}
}

func TestVerifyReportsAllDefects(t *testing.T) {
	_, entries := buildChain(t, 5)

	entries[1].Verdict = "tampered"
	entries[3].Verdict = "tampered"

	result := VerifyEntries(entries)
	if len(result.Errors) < 2 {
		t.Errorf("expected all defects reported, got %v", result.Errors)
	}
}

func hasKindAt(r *Result, kind ErrorKind, index int) bool {
	for _, e := range r.Errors {
		if e.Kind == kind && e.Index == index {
			return true
		}
	}
	return false
}
