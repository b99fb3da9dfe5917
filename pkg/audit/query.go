package audit

import "time"

// Query filters audit log reads. Zero values mean "no constraint".
type Query struct {
	// Stage restricts results to one pipeline stage.
	Stage Stage

	// Action restricts results to one action name.
	Action string

	// Actor restricts results to one actor.
	Actor string

	// Verdict restricts results to entries carrying this verdict.
	Verdict string

	// From and To bound the entry timestamp. Both bounds are inclusive.
	From time.Time
	To   time.Time

	// Limit caps the number of returned entries; 0 means no cap.
	Limit int

	// Offset skips that many matching entries.
	Offset int
}

// Validate checks query constraints.
func (q Query) Validate() error {
	if q.Stage != "" && !q.Stage.Valid() {
		return &QueryError{Message: "unknown stage " + string(q.Stage)}
	}
	if q.Limit < 0 {
		return &QueryError{Message: "limit must not be negative"}
	}
	if q.Offset < 0 {
		return &QueryError{Message: "offset must not be negative"}
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return &QueryError{Message: "time range is inverted"}
	}
	return nil
}

// Matches reports whether the entry satisfies every constraint except
// Limit and Offset, which the store applies during iteration.
func (q Query) Matches(e *Entry) bool {
	if q.Stage != "" && e.Stage != q.Stage {
		return false
	}
	if q.Action != "" && e.Action != q.Action {
		return false
	}
	if q.Actor != "" && e.Actor != q.Actor {
		return false
	}
	if q.Verdict != "" && e.Verdict != q.Verdict {
		return false
	}
	if !q.From.IsZero() && e.Timestamp.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && e.Timestamp.After(q.To) {
		return false
	}
	return true
}
