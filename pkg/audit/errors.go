package audit

import "fmt"

// AppendError indicates a failed append to the audit chain. Appends are
// load-bearing: the operation that triggered the append must treat this
// as fatal rather than continue without an audit record.
type AppendError struct {
	Stage  Stage
	Action string
	Cause  error
}

func (e *AppendError) Error() string {
	return fmt.Sprintf("failed to append audit entry (stage=%s action=%s): %v", e.Stage, e.Action, e.Cause)
}

func (e *AppendError) Unwrap() error {
	return e.Cause
}

// NewAppendError creates an AppendError.
func NewAppendError(stage Stage, action string, cause error) *AppendError {
	return &AppendError{Stage: stage, Action: action, Cause: cause}
}

// QueryError indicates an invalid or failed audit log query.
type QueryError struct {
	Message string
	Cause   error
}

func (e *QueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("audit query failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("audit query failed: %s", e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// StorageError indicates a storage backend failure.
type StorageError struct {
	Backend string
	Op      string
	Cause   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage error (%s/%s): %v", e.Backend, e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, op string, cause error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Cause: cause}
}
