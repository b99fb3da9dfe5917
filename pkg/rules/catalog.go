package rules

import (
	"fmt"
	"sync"
)

// CatalogOptions configures catalog construction.
type CatalogOptions struct {
	// Registry resolves named evaluator functions. A nil registry means
	// every rule falls back to the expression path.
	Registry *Registry

	// CheckExpression validates an expression fallback at load time, so
	// unparseable rules are rejected before any evaluation. Typically
	// wired to the engine's expression compiler. Nil skips the check.
	CheckExpression func(expr string) error
}

// Catalog is an explicitly constructed, injected rule set for one
// regulation. It replaces any notion of module-level pre-loaded rule
// state: callers build a catalog, pass it to the engine, and may swap
// it atomically on reload.
type Catalog struct {
	regulation string
	version    string

	mu    sync.RWMutex
	rules []*Rule
	byID  map[string]*Rule
}

// NewCatalog validates the given rules and builds a catalog for the
// regulation. Validation failures are fatal for the whole rule set and
// are reported together in a single CatalogError.
func NewCatalog(regulation, version string, ruleSet []*Rule, opts CatalogOptions) (*Catalog, error) {
	var defects []string
	byID := make(map[string]*Rule, len(ruleSet))

	for i, rule := range ruleSet {
		where := fmt.Sprintf("rule %d", i)
		if rule.ID != "" {
			where = fmt.Sprintf("rule %q", rule.ID)
		}

		if rule.ID == "" {
			defects = append(defects, where+": missing id")
		}
		if rule.RequirementID == "" {
			defects = append(defects, where+": missing requirement_id")
		}
		if rule.Title == "" {
			defects = append(defects, where+": missing title")
		}
		switch rule.Type {
		case RuleTypeAutomated, RuleTypeSemiAutomated, RuleTypeManual:
		default:
			defects = append(defects, fmt.Sprintf("%s: unknown rule_type %q", where, rule.Type))
		}
		if !rule.Severity.Valid() {
			defects = append(defects, fmt.Sprintf("%s: unknown severity %q", where, rule.Severity))
		}
		if rule.Type != RuleTypeManual && rule.EvaluationLogic == "" {
			defects = append(defects, where+": missing evaluation_logic")
		}

		if _, dup := byID[rule.ID]; dup && rule.ID != "" {
			defects = append(defects, where+": duplicate rule id")
			continue
		}
		if rule.ID != "" {
			byID[rule.ID] = rule
		}

		// Resolve the dispatch target once, failing fast on rules that
		// resolve to neither path.
		if rule.Type == RuleTypeManual {
			continue
		}
		ref, err := resolveEvaluator(rule, opts)
		if err != nil {
			defects = append(defects, fmt.Sprintf("%s: %v", where, err))
			continue
		}
		rule.evaluator = ref
	}

	if len(defects) > 0 {
		return nil, &CatalogError{Regulation: regulation, Errors: defects}
	}

	return &Catalog{
		regulation: regulation,
		version:    version,
		rules:      ruleSet,
		byID:       byID,
	}, nil
}

// resolveEvaluator binds a rule's evaluation logic to a named function
// or an expression fallback.
func resolveEvaluator(rule *Rule, opts CatalogOptions) (*EvaluatorRef, error) {
	if opts.Registry != nil {
		// The registry key is the rule id itself: one reviewed function
		// per rule, registered alongside the catalog definition.
		if fn, ok := opts.Registry.Lookup(rule.ID); ok {
			return &EvaluatorRef{Kind: EvaluatorNamed, Func: fn}, nil
		}
		if fn, ok := opts.Registry.Lookup(rule.EvaluationLogic); ok {
			return &EvaluatorRef{Kind: EvaluatorNamed, Func: fn}, nil
		}
	}

	if opts.CheckExpression != nil {
		if err := opts.CheckExpression(rule.EvaluationLogic); err != nil {
			return nil, fmt.Errorf("evaluation_logic resolves to no named function and is not a valid expression: %w", err)
		}
	}
	return &EvaluatorRef{Kind: EvaluatorExpression, Expression: rule.EvaluationLogic}, nil
}

// Regulation returns the regulation identifier this catalog covers.
func (c *Catalog) Regulation() string {
	return c.regulation
}

// Version returns the regulation document version, if known.
func (c *Catalog) Version() string {
	return c.version
}

// Rules returns the catalog's rules in definition order. The returned
// slice is a copy; the rules themselves are shared and immutable.
func (c *Catalog) Rules() []*Rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Rule returns the rule with the given id.
func (c *Catalog) Rule(id string) (*Rule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rule, ok := c.byID[id]
	return rule, ok
}

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.rules)
}

// Replace atomically swaps the catalog's rule set with one from a
// freshly validated catalog. Used by the watcher on reload so in-flight
// evaluations keep the rule pointers they already hold.
func (c *Catalog) Replace(next *Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rules = next.rules
	c.byID = next.byID
	c.version = next.version
}
