// Package audit defines the hash-chained audit log: entries, content
// hashing, stores, and queries. Every pipeline operation appends an
// entry whose hash covers the previous entry's hash, so any later
// modification, deletion or reordering is detectable by a full chain
// verification pass.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// GenesisHash is the previous_hash value of the first entry in a chain.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Stage identifies the pipeline stage that produced an entry.
type Stage string

const (
	StageIngest    Stage = "ingest"
	StageDecompose Stage = "decompose"
	StageGenerate  Stage = "generate"
	StageEvaluate  Stage = "evaluate"
	StageAudit     Stage = "audit"
)

// Valid reports whether s is a recognised stage.
func (s Stage) Valid() bool {
	switch s {
	case StageIngest, StageDecompose, StageGenerate, StageEvaluate, StageAudit:
		return true
	}
	return false
}

// Entry is one immutable record in the audit chain.
//
// EntryHash covers every field except ID and EntryHash itself,
// including PreviousHash; see computeEntryHash for the exact preimage.
type Entry struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Stage        Stage          `json:"stage"`
	Action       string         `json:"action"`
	Actor        string         `json:"actor"`
	TargetIDs    []string       `json:"target_ids"`
	InputHash    string         `json:"input_hash,omitempty"`
	OutputHash   string         `json:"output_hash,omitempty"`
	Verdict      string         `json:"verdict,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	PreviousHash string         `json:"previous_hash"`
	EntryHash    string         `json:"entry_hash"`
}

// NewEntry creates an entry with a fresh id and the current UTC time.
// The chain fields (PreviousHash, EntryHash) are assigned by the logger
// on append.
func NewEntry(stage Stage, action, actor string) *Entry {
	return &Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Stage:     stage,
		Action:    action,
		Actor:     actor,
	}
}
