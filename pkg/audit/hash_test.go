package audit

import (
	"strings"
	"testing"
	"time"
)

func testEntry() *Entry {
	return &Entry{
		ID:           "e-1",
		Timestamp:    time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Stage:        StageEvaluate,
		Action:       "rule_evaluated",
		Actor:        "engine",
		TargetIDs:    []string{"RULE-EU-AI-ACT-009-01-001"},
		InputHash:    "aaa",
		OutputHash:   "bbb",
		Verdict:      "pass",
		Details:      map[string]any{"k": "v"},
		PreviousHash: GenesisHash,
	}
}

func TestComputeEntryHashDeterministic(t *testing.T) {
	e := testEntry()
	h1 := ComputeEntryHash(e)
	h2 := ComputeEntryHash(e)
	if h1 != h2 {
		t.Errorf("hash not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h1))
	}
}

func TestComputeEntryHashIgnoresID(t *testing.T) {
	a := testEntry()
	b := testEntry()
	b.ID = "completely-different"

	if ComputeEntryHash(a) != ComputeEntryHash(b) {
		t.Error("entry id must not affect the hash")
	}
}

func TestComputeEntryHashSensitivity(t *testing.T) {
	base := ComputeEntryHash(testEntry())

	tests := []struct {
		name   string
		mutate func(*Entry)
	}{
		{"timestamp", func(e *Entry) { e.Timestamp = e.Timestamp.Add(time.Nanosecond) }},
		{"stage", func(e *Entry) { e.Stage = StageIngest }},
		{"action", func(e *Entry) { e.Action = "other" }},
		{"actor", func(e *Entry) { e.Actor = "someone" }},
		{"target_ids", func(e *Entry) { e.TargetIDs = []string{"x"} }},
		{"input_hash", func(e *Entry) { e.InputHash = "zzz" }},
		{"output_hash", func(e *Entry) { e.OutputHash = "zzz" }},
		{"verdict", func(e *Entry) { e.Verdict = "fail" }},
		{"details", func(e *Entry) { e.Details = map[string]any{"k": "w"} }},
		{"previous_hash", func(e *Entry) { e.PreviousHash = strings.Repeat("1", 64) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEntry()
			tt.mutate(e)
			if ComputeEntryHash(e) == base {
				t.Errorf("mutating %s did not change the hash", tt.name)
			}
		})
	}
}

func TestComputeEntryHashNilCollections(t *testing.T) {
	withNil := testEntry()
	withNil.TargetIDs = nil
	withNil.Details = nil

	withEmpty := testEntry()
	withEmpty.TargetIDs = []string{}
	withEmpty.Details = map[string]any{}

	if ComputeEntryHash(withNil) != ComputeEntryHash(withEmpty) {
		t.Error("nil and empty collections must hash identically")
	}
}

func TestHashStringStable(t *testing.T) {
	if HashString("abc") != HashString("abc") {
		t.Error("HashString not stable")
	}
	if HashString("abc") == HashString("abd") {
		t.Error("HashString collision on different inputs")
	}
}

func TestNewEntryDefaults(t *testing.T) {
	e := NewEntry(StageEvaluate, "rule_evaluated", "engine")
	if e.ID == "" {
		t.Error("expected generated id")
	}
	if e.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}
	if e.Timestamp.Location() != time.UTC {
		t.Error("timestamps must be UTC")
	}
}
