package rules

import (
	"fmt"
	"sort"
	"sync"
)

// EvaluatorFunc is a reviewed, rule-specific evaluation function. It
// receives the full profile snapshot and returns a verdict with an
// optional context string for the result details.
//
// Named evaluators may return any verdict: a rule about training-data
// bias is not applicable to a system that does not use training data,
// and only the evaluator knows that precondition.
type EvaluatorFunc func(snapshot map[string]any) (Verdict, string, error)

// EvaluatorKind distinguishes the two dispatch paths for a rule's
// evaluation logic.
type EvaluatorKind int

const (
	// EvaluatorNamed dispatches to a registered EvaluatorFunc. This is
	// the preferred, reviewed path.
	EvaluatorNamed EvaluatorKind = iota

	// EvaluatorExpression interprets the logic as a sandboxed boolean
	// expression over the resolved input values. Fallback for rules that
	// were never promoted to named functions.
	EvaluatorExpression
)

// EvaluatorRef is a rule's dispatch target, resolved once at catalog load
// time so unresolvable rules fail fast instead of per evaluation.
type EvaluatorRef struct {
	Kind EvaluatorKind

	// Func is set when Kind is EvaluatorNamed.
	Func EvaluatorFunc

	// Expression is set when Kind is EvaluatorExpression.
	Expression string
}

// Registry holds named evaluator functions, typically one set per
// regulation. Registries are populated at start-up (built-in catalogs
// register in their package init path) and read-only afterwards.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]EvaluatorFunc
}

// NewRegistry creates an empty evaluator registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]EvaluatorFunc)}
}

// Register adds an evaluator function under the given name. Registering
// a duplicate name is a programming error and returns an error rather
// than silently replacing the reviewed function.
func (r *Registry) Register(name string, fn EvaluatorFunc) error {
	if name == "" {
		return fmt.Errorf("evaluator name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("evaluator %q cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("evaluator %q already registered", name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister is Register for built-in catalogs assembled from code,
// where a duplicate name is unrecoverable.
func (r *Registry) MustRegister(name string, fn EvaluatorFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the evaluator registered under name.
func (r *Registry) Lookup(name string) (EvaluatorFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns all registered evaluator names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered evaluators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.funcs)
}
