package rules

// RuleType describes how much of a rule's check can be automated.
type RuleType string

const (
	// RuleTypeAutomated rules are fully machine-checkable from profile fields.
	RuleTypeAutomated RuleType = "automated"

	// RuleTypeSemiAutomated rules are machine-checkable but rely on
	// self-declared evidence fields.
	RuleTypeSemiAutomated RuleType = "semi_automated"

	// RuleTypeManual rules always require human assessment.
	RuleTypeManual RuleType = "manual"
)

// Severity classifies the impact of non-compliance with a rule.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Valid reports whether s is a recognised severity value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// Verdict is the outcome of evaluating one rule against one profile.
type Verdict string

const (
	// VerdictPass means the rule's predicate held.
	VerdictPass Verdict = "pass"

	// VerdictFail means the rule's predicate did not hold.
	VerdictFail Verdict = "fail"

	// VerdictNotApplicable means the rule's precondition could not be
	// assessed, typically because a required profile field is absent.
	// This is a defined business outcome, not an error.
	VerdictNotApplicable Verdict = "not_applicable"

	// VerdictManualReview means automated evaluation could not produce a
	// verdict (evaluator error, timeout) and a human must decide.
	VerdictManualReview Verdict = "manual_review"
)

// Citation points back to the source clause a rule was derived from.
// Citations are read-only provenance; the engine never interprets them.
type Citation struct {
	ClauseID      string `yaml:"clause_id" json:"clause_id"`
	ArticleRef    string `yaml:"article_ref" json:"article_ref"`
	ParagraphRef  string `yaml:"paragraph_ref,omitempty" json:"paragraph_ref,omitempty"`
	SubsectionRef string `yaml:"subsection_ref,omitempty" json:"subsection_ref,omitempty"`
	ExactQuote    string `yaml:"exact_quote,omitempty" json:"exact_quote,omitempty"`
}

// TestCase is a validation case shipped with a rule. The catalog linter
// replays test cases against the engine to catch drift between a rule's
// description and its evaluation logic.
type TestCase struct {
	ID          string         `yaml:"id" json:"id"`
	Description string         `yaml:"description" json:"description"`
	InputData   map[string]any `yaml:"input_data" json:"input_data"`
	Expected    Verdict        `yaml:"expected_result" json:"expected_result"`
}

// Rule is one machine-checkable compliance check derived from a regulatory
// requirement. Rules are immutable after catalog load; the engine never
// mutates them.
type Rule struct {
	// ID uniquely identifies the rule, e.g. "RULE-EU-AI-ACT-009-01-001".
	ID string `yaml:"id" json:"id"`

	// RequirementID references the requirement this rule formalizes.
	RequirementID string `yaml:"requirement_id" json:"requirement_id"`

	// Type is the automation level of the rule.
	Type RuleType `yaml:"rule_type" json:"rule_type"`

	// Title is a short human-readable statement of the check.
	Title string `yaml:"title" json:"title"`

	// Description explains the check in detail.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// InputsNeeded lists the dotted profile field paths the rule reads.
	// If any path does not resolve, the verdict is not_applicable.
	InputsNeeded []string `yaml:"inputs_needed" json:"inputs_needed"`

	// EvaluationLogic names a registered evaluator function or, failing
	// that, holds a boolean expression over the resolved input values.
	EvaluationLogic string `yaml:"evaluation_logic" json:"evaluation_logic"`

	// Severity classifies the impact of failing this rule.
	Severity Severity `yaml:"severity" json:"severity"`

	// Remediation is guidance shown alongside a failing result.
	Remediation string `yaml:"remediation,omitempty" json:"remediation,omitempty"`

	// TestCases are shipped validation cases for the rule's logic.
	TestCases []TestCase `yaml:"test_cases,omitempty" json:"test_cases,omitempty"`

	// Citations link back to the source clauses.
	Citations []Citation `yaml:"citations,omitempty" json:"citations,omitempty"`

	// evaluator is the dispatch target resolved at catalog load time.
	evaluator *EvaluatorRef
}

// Evaluator returns the dispatch target resolved at catalog load time,
// or nil if the rule has not been through Catalog resolution.
func (r *Rule) Evaluator() *EvaluatorRef {
	return r.evaluator
}

// ArticleRef returns the article reference of the rule's first citation,
// or an empty string when the rule carries no citations.
func (r *Rule) ArticleRef() string {
	if len(r.Citations) == 0 {
		return ""
	}
	return r.Citations[0].ArticleRef
}

// RuleResult is the outcome of evaluating one rule against one profile.
// Results are pure outputs: created by the engine, never mutated after.
type RuleResult struct {
	RuleID        string     `json:"rule_id"`
	RequirementID string     `json:"requirement_id"`
	Title         string     `json:"title"`
	Verdict       Verdict    `json:"verdict"`
	Severity      Severity   `json:"severity"`
	Details       string     `json:"details,omitempty"`
	Remediation   string     `json:"remediation,omitempty"`
	ArticleRef    string     `json:"article_ref,omitempty"`
	Citations     []Citation `json:"citations,omitempty"`
}
