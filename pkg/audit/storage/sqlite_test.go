package storage

import (
	"context"
	"path/filepath"
	"testing"

	"veridex-hq/callisto/pkg/audit"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "audit.db")

	store, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

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
			t.Errorf("entry %d: hash %s, want %s", i, got[i].EntryHash, entries[i].EntryHash)
		}
		if !got[i].Timestamp.Equal(entries[i].Timestamp) {
			t.Errorf("entry %d: timestamp %s, want %s", i, got[i].Timestamp, entries[i].Timestamp)
		}
		if len(got[i].TargetIDs) != 1 || got[i].TargetIDs[0] != "rule" {
			t.Errorf("entry %d: target ids not preserved", i)
		}
	}
}

func TestSQLiteStoreLastHashPersists(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "audit.db")

	store, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	entries := chainEntries(2)
	for _, e := range entries {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	store.Close()

	reopened, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("failed to reopen sqlite store: %v", err)
	}
	defer reopened.Close()

	hash, err := reopened.LastHash(ctx)
	if err != nil {
		t.Fatalf("LastHash() error = %v", err)
	}
	if hash != entries[1].EntryHash {
		t.Errorf("LastHash() = %s, want %s", hash, entries[1].EntryHash)
	}
}

func TestSQLiteStoreQueryFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	entries := chainEntries(4)
	entries[1].Verdict = "fail"
	entries[1].EntryHash = audit.ComputeEntryHash(entries[1])
	for _, e := range entries {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := store.List(ctx, audit.Query{Verdict: "fail"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].EntryHash != entries[1].EntryHash {
		t.Errorf("verdict filter returned %d entries", len(got))
	}

	got, err = store.List(ctx, audit.Query{From: entries[2].Timestamp})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("time filter returned %d entries, want 2", len(got))
	}

	if _, err := store.List(ctx, audit.Query{Stage: "bogus"}); err == nil {
		t.Error("expected error for invalid query")
	}
}
