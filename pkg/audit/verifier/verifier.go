// Package verifier re-derives the audit chain from stored entries and
// reports every spot where it no longer holds together.
package verifier

import (
	"context"
	"fmt"

	"veridex-hq/callisto/pkg/audit"
	"veridex-hq/callisto/pkg/audit/storage"
)

// ErrorKind classifies one chain verification failure.
type ErrorKind string

const (
	// KindInvalidGenesis means the first entry does not reference the
	// genesis hash.
	KindInvalidGenesis ErrorKind = "invalid_genesis"

	// KindHashMismatch means an entry's recorded hash does not match the
	// hash recomputed from its fields: the entry content was altered.
	KindHashMismatch ErrorKind = "hash_mismatch"

	// KindBrokenLink means an entry's previous_hash does not match the
	// preceding entry's hash: entries were removed or reordered.
	KindBrokenLink ErrorKind = "broken_link"
)

// ChainError pinpoints one verification failure.
type ChainError struct {
	Kind    ErrorKind `json:"kind"`
	Index   int       `json:"index"`
	EntryID string    `json:"entry_id"`
	Message string    `json:"message"`
}

func (e ChainError) Error() string {
	return fmt.Sprintf("%s at entry %d (%s): %s", e.Kind, e.Index, e.EntryID, e.Message)
}

// Result is the outcome of a full verification pass.
type Result struct {
	IsValid      bool         `json:"is_valid"`
	TotalEntries int          `json:"total_entries"`
	Errors       []ChainError `json:"errors,omitempty"`
}

// Verify loads every entry from the store in append order and checks
// the whole chain. It never stops at the first defect: a tampered log
// should be reported in full, not one break at a time. An empty chain
// is valid.
func Verify(ctx context.Context, store storage.Store) (*Result, error) {
	entries, err := store.List(ctx, audit.Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to load audit entries: %w", err)
	}
	return VerifyEntries(entries), nil
}

// VerifyEntries checks an already loaded entry sequence.
func VerifyEntries(entries []*audit.Entry) *Result {
	result := &Result{IsValid: true, TotalEntries: len(entries)}
	if len(entries) == 0 {
		return result
	}

	if entries[0].PreviousHash != audit.GenesisHash {
		result.addError(ChainError{
			Kind:    KindInvalidGenesis,
			Index:   0,
			EntryID: entries[0].ID,
			Message: fmt.Sprintf("first entry references %q instead of the genesis hash", entries[0].PreviousHash),
		})
	}

	for i, entry := range entries {
		expected := audit.ComputeEntryHash(entry)
		if entry.EntryHash != expected {
			result.addError(ChainError{
				Kind:    KindHashMismatch,
				Index:   i,
				EntryID: entry.ID,
				Message: fmt.Sprintf("recorded hash %s, recomputed %s", entry.EntryHash, expected),
			})
		}

		if i > 0 && entry.PreviousHash != entries[i-1].EntryHash {
			result.addError(ChainError{
				Kind:    KindBrokenLink,
				Index:   i,
				EntryID: entry.ID,
				Message: fmt.Sprintf("previous_hash %s does not match prior entry hash %s", entry.PreviousHash, entries[i-1].EntryHash),
			})
		}
	}

	return result
}

func (r *Result) addError(e ChainError) {
	r.IsValid = false
	r.Errors = append(r.Errors, e)
}
