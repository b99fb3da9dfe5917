package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// HashContent returns the SHA-256 hex digest of the canonical JSON
// encoding of v. Map keys are sorted by the encoder, so equal content
// always hashes equally.
func HashContent(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// HashString returns the SHA-256 hex digest of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ComputeEntryHash computes the tamper-evidence hash of an entry. The
// preimage covers every content field plus the previous entry's hash,
// pipe-joined in a fixed order:
//
//	previous_hash|timestamp|stage|action|actor|target_ids|input_hash|output_hash|verdict|details
//
// where timestamp is RFC 3339 UTC and target_ids/details are canonical
// JSON. The entry id is deliberately excluded: ids are assigned, not
// attested.
func ComputeEntryHash(e *Entry) string {
	targetIDs := e.TargetIDs
	if targetIDs == nil {
		targetIDs = []string{}
	}
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}

	// Entries carry JSON-safe values only; encode errors cannot occur here.
	targetJSON, _ := json.Marshal(targetIDs)
	detailsJSON, _ := json.Marshal(details)

	parts := []string{
		e.PreviousHash,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		string(e.Stage),
		e.Action,
		e.Actor,
		string(targetJSON),
		e.InputHash,
		e.OutputHash,
		e.Verdict,
		string(detailsJSON),
	}
	return HashString(strings.Join(parts, "|"))
}
