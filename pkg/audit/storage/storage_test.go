package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"veridex-hq/callisto/pkg/audit"
)

// chainEntries builds n linked entries starting from the genesis hash.
func chainEntries(n int) []*audit.Entry {
	entries := make([]*audit.Entry, 0, n)
	prev := audit.GenesisHash
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		e := audit.NewEntry(audit.StageEvaluate, "rule_evaluated", "engine")
		e.Timestamp = base.Add(time.Duration(i) * time.Second)
		e.TargetIDs = []string{"rule"}
		e.Verdict = "pass"
		e.PreviousHash = prev
		e.EntryHash = audit.ComputeEntryHash(e)
		prev = e.EntryHash
		entries = append(entries, e)
	}
	return entries
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	jsonl, err := NewJSONLStore(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("failed to create jsonl store: %v", err)
	}

	return map[string]Store{
		"memory": NewMemoryStore(),
		"jsonl":  jsonl,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			entries := chainEntries(3)
			for _, e := range entries {
				if err := store.Append(ctx, e); err != nil {
					t.Fatalf("Append() error = %v", err)
				}
			}

			got, err := store.List(ctx, audit.Query{})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("List() returned %d entries, want 3", len(got))
			}
			for i := range got {
				if got[i].EntryHash != entries[i].EntryHash {
					t.Errorf("entry %d out of order", i)
				}
				if got[i].Details == nil && entries[i].Details != nil {
					t.Errorf("entry %d lost details", i)
				}
			}

			count, err := store.Count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if count != 3 {
				t.Errorf("Count() = %d, want 3", count)
			}
		})
	}
}

func TestStoreLastHash(t *testing.T) {
	ctx := context.Background()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			hash, err := store.LastHash(ctx)
			if err != nil {
				t.Fatalf("LastHash() error = %v", err)
			}
			if hash != audit.GenesisHash {
				t.Errorf("empty store LastHash() = %s, want genesis", hash)
			}

			entries := chainEntries(2)
			for _, e := range entries {
				if err := store.Append(ctx, e); err != nil {
					t.Fatalf("Append() error = %v", err)
				}
			}

			hash, err = store.LastHash(ctx)
			if err != nil {
				t.Fatalf("LastHash() error = %v", err)
			}
			if hash != entries[1].EntryHash {
				t.Errorf("LastHash() = %s, want %s", hash, entries[1].EntryHash)
			}
		})
	}
}

func TestStoreListFilters(t *testing.T) {
	ctx := context.Background()

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			entries := chainEntries(5)
			entries[2].Action = "evaluation_completed"
			entries[2].EntryHash = audit.ComputeEntryHash(entries[2])
			for _, e := range entries {
				if err := store.Append(ctx, e); err != nil {
					t.Fatalf("Append() error = %v", err)
				}
			}

			got, err := store.List(ctx, audit.Query{Action: "evaluation_completed"})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("action filter returned %d entries, want 1", len(got))
			}

			got, err = store.List(ctx, audit.Query{Limit: 2, Offset: 1})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("window returned %d entries, want 2", len(got))
			}
			if got[0].EntryHash != entries[1].EntryHash {
				t.Error("offset did not skip the first entry")
			}
		})
	}
}

func TestJSONLStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	entries := chainEntries(2)
	for _, e := range entries {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	store.Close()

	reopened, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	hash, err := reopened.LastHash(ctx)
	if err != nil {
		t.Fatalf("LastHash() error = %v", err)
	}
	if hash != entries[1].EntryHash {
		t.Errorf("reopened LastHash() = %s, want %s", hash, entries[1].EntryHash)
	}
}
