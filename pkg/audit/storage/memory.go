package storage

import (
	"context"
	"sync"

	"veridex-hq/callisto/pkg/audit"
)

// MemoryStore is an in-memory audit store. Entries are copied on write
// and on read so callers can never mutate stored history.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*audit.Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores a copy of the entry.
func (m *MemoryStore) Append(ctx context.Context, entry *audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, copyEntry(entry))
	return nil
}

// LastHash returns the hash of the most recent entry.
func (m *MemoryStore) LastHash(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.entries) == 0 {
		return audit.GenesisHash, nil
	}
	return m.entries[len(m.entries)-1].EntryHash, nil
}

// List returns matching entries in append order.
func (m *MemoryStore) List(ctx context.Context, q audit.Query) ([]*audit.Entry, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*audit.Entry
	for _, e := range m.entries {
		if q.Matches(e) {
			matched = append(matched, copyEntry(e))
		}
	}
	return applyWindow(matched, q), nil
}

// Count returns the number of stored entries.
func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.entries)), nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func copyEntry(e *audit.Entry) *audit.Entry {
	out := *e
	if e.TargetIDs != nil {
		out.TargetIDs = append([]string(nil), e.TargetIDs...)
	}
	if e.Details != nil {
		out.Details = make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			out.Details[k] = v
		}
	}
	return &out
}
