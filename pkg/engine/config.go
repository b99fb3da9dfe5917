package engine

import (
	"fmt"
	"time"
)

// Config contains configuration for the evaluation engine.
type Config struct {
	// RuleTimeout bounds a single rule evaluation. A rule that does not
	// produce a verdict in time is marked for manual review.
	// Default: 5 seconds
	RuleTimeout time.Duration

	// MaxParallel is the number of rules evaluated concurrently.
	// Default: 8
	MaxParallel int

	// ExprStepBudget caps the number of evaluation steps for an
	// expression fallback, so a pathological expression cannot stall a
	// run. Default: 10000
	ExprStepBudget int
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		RuleTimeout:    5 * time.Second,
		MaxParallel:    8,
		ExprStepBudget: 10000,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.RuleTimeout <= 0 {
		return fmt.Errorf("rule_timeout must be positive, got %s", c.RuleTimeout)
	}
	if c.MaxParallel <= 0 {
		return fmt.Errorf("max_parallel must be positive, got %d", c.MaxParallel)
	}
	if c.ExprStepBudget <= 0 {
		return fmt.Errorf("expr_step_budget must be positive, got %d", c.ExprStepBudget)
	}
	return nil
}
