// Package logger provides the append side of the audit chain. A single
// Logger instance owns the chain tail: all appends serialize through
// it, so the previous_hash linkage is never racy even when evaluations
// run concurrently.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"veridex-hq/callisto/pkg/audit"
	"veridex-hq/callisto/pkg/audit/storage"
)

// Observer receives the outcome of every store append, typically wired
// to metrics. Implementations must be safe for concurrent use.
type Observer interface {
	RecordAuditAppend(stage, status string)
}

// Logger appends hash-chained entries to a store. Appends are
// synchronous: when Append returns nil the entry is persisted and the
// chain tail has advanced. A failed append leaves the tail untouched.
type Logger struct {
	store    storage.Store
	logger   *slog.Logger
	observer Observer

	mu   sync.Mutex
	tail string
}

// Option configures a Logger.
type Option func(*Logger)

// WithObserver wires append outcome observation, typically metrics.
func WithObserver(o Observer) Option {
	return func(l *Logger) { l.observer = o }
}

// New creates a Logger whose tail is seeded from the last persisted
// entry, so chains survive process restarts.
func New(ctx context.Context, store storage.Store, logger *slog.Logger, opts ...Option) (*Logger, error) {
	if store == nil {
		return nil, fmt.Errorf("audit logger requires a store")
	}
	if logger == nil {
		logger = slog.Default()
	}

	tail, err := store.LastHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit chain tail: %w", err)
	}

	l := &Logger{
		store:  store,
		logger: logger.With("component", "audit.logger"),
		tail:   tail,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Append chains and persists the entry. Missing id and timestamp are
// filled in; PreviousHash and EntryHash are always overwritten, callers
// cannot pick their own chain position.
func (l *Logger) Append(ctx context.Context, entry *audit.Entry) error {
	if entry == nil {
		return audit.NewAppendError("", "", fmt.Errorf("nil entry"))
	}
	if !entry.Stage.Valid() {
		return audit.NewAppendError(entry.Stage, entry.Action, fmt.Errorf("unknown stage %q", entry.Stage))
	}
	if entry.Action == "" {
		return audit.NewAppendError(entry.Stage, entry.Action, fmt.Errorf("missing action"))
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Actor == "" {
		entry.Actor = "system"
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry.PreviousHash = l.tail
	entry.EntryHash = audit.ComputeEntryHash(entry)

	if err := l.store.Append(ctx, entry); err != nil {
		if l.observer != nil {
			l.observer.RecordAuditAppend(string(entry.Stage), "error")
		}
		return audit.NewAppendError(entry.Stage, entry.Action, err)
	}
	l.tail = entry.EntryHash
	if l.observer != nil {
		l.observer.RecordAuditAppend(string(entry.Stage), "ok")
	}

	l.logger.Debug("audit entry appended",
		"id", entry.ID,
		"stage", entry.Stage,
		"action", entry.Action,
		"targets", len(entry.TargetIDs),
	)
	return nil
}

// TailHash returns the hash of the most recently appended entry, or the
// genesis hash for an empty chain.
func (l *Logger) TailHash() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tail
}
