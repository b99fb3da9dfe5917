// Package storage provides persistence backends for the audit chain.
//
// Three backends are available: an in-memory store for tests and
// short-lived runs, an append-only JSONL file store, and a SQLite
// store for deployments that need queryable history. All backends
// preserve strict append order; the chain verifier depends on it.
package storage

import (
	"context"

	"veridex-hq/callisto/pkg/audit"
)

// Store persists audit entries in append order.
type Store interface {
	// Append persists one entry. The entry's chain fields are already
	// assigned by the logger; stores never modify entries.
	Append(ctx context.Context, entry *audit.Entry) error

	// LastHash returns the entry hash of the most recent entry, or
	// audit.GenesisHash when the store is empty. The logger seeds its
	// tail hash from this at startup.
	LastHash(ctx context.Context) (string, error)

	// List returns entries matching the query in append order.
	List(ctx context.Context, q audit.Query) ([]*audit.Entry, error)

	// Count returns the total number of entries.
	Count(ctx context.Context) (int64, error)

	// Close releases backend resources.
	Close() error
}

// applyWindow applies query offset and limit to an already filtered,
// ordered result set.
func applyWindow(entries []*audit.Entry, q audit.Query) []*audit.Entry {
	if q.Offset > 0 {
		if q.Offset >= len(entries) {
			return nil
		}
		entries = entries[q.Offset:]
	}
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}
	return entries
}
