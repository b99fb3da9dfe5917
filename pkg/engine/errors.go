package engine

import "fmt"

// ExpressionError reports a defect in an expression fallback, either at
// compile time or during evaluation.
type ExpressionError struct {
	Expression string
	Pos        int
	Message    string
}

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression error at offset %d in %q: %s", e.Pos, e.Expression, e.Message)
}

// EvaluationError reports a failed rule evaluation. The engine converts
// these into manual_review verdicts; they surface as errors only through
// result details and logs.
type EvaluationError struct {
	RuleID string
	Cause  error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error [%s]: %v", e.RuleID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}
