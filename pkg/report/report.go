// Package report aggregates per-rule verdicts into a compliance report:
// score, overall verdict, and the remediation gap list grouped by
// severity.
package report

import (
	"time"

	"github.com/google/uuid"

	"veridex-hq/callisto/pkg/rules"
)

// OverallVerdict is the roll-up compliance verdict for one evaluation.
type OverallVerdict string

const (
	// VerdictCompliant means every applicable rule passed.
	VerdictCompliant OverallVerdict = "compliant"

	// VerdictPartialCompliance means at least one rule failed, but none
	// of the failures is critical.
	VerdictPartialCompliance OverallVerdict = "partial_compliance"

	// VerdictNonCompliant means at least one critical rule failed.
	VerdictNonCompliant OverallVerdict = "non_compliant"
)

// Summary carries the verdict counts and the compliance score.
type Summary struct {
	TotalRules      int            `json:"total_rules"`
	Passed          int            `json:"passed"`
	Failed          int            `json:"failed"`
	NotApplicable   int            `json:"not_applicable"`
	ManualReview    int            `json:"manual_review"`
	ComplianceScore float64        `json:"compliance_score"`
	OverallVerdict  OverallVerdict `json:"overall_verdict"`
}

// Gap is one failed rule surfaced for remediation.
type Gap struct {
	RuleID      string         `json:"rule_id"`
	Title       string         `json:"title"`
	Severity    rules.Severity `json:"severity"`
	Remediation string         `json:"remediation,omitempty"`
	ArticleRef  string         `json:"article_ref,omitempty"`
}

// Gaps groups failed rules by severity. Low and info failures are kept
// in the results but never listed as gaps.
type Gaps struct {
	Critical []Gap `json:"critical"`
	High     []Gap `json:"high"`
	Medium   []Gap `json:"medium"`
}

// Disclaimer accompanies every report. The engine interprets regulatory
// text; it does not practice law.
const Disclaimer = "DISCLAIMER: This report is an engineering interpretation of regulatory requirements. " +
	"It does not constitute legal advice. Consult qualified legal professionals for " +
	"authoritative compliance determinations."

// ComplianceReport is the full output of one evaluation run.
type ComplianceReport struct {
	ID                string             `json:"id"`
	GeneratedAt       time.Time          `json:"generated_at"`
	SystemName        string             `json:"system_name"`
	ProviderName      string             `json:"provider_name"`
	Regulation        string             `json:"regulation"`
	RegulationVersion string             `json:"regulation_version,omitempty"`
	Results           []rules.RuleResult `json:"results"`
	Summary           Summary            `json:"summary"`
	Gaps              Gaps               `json:"gaps"`
	Disclaimer        string             `json:"disclaimer"`
}

// Build aggregates rule results into a report.
//
// The compliance score is the passed share of applicable rules, 0-100.
// Rules whose verdict is not_applicable leave the denominator; rules
// needing manual review stay in it, an unresolved check is not a passed
// check. A profile with no applicable rules scores 100 and is
// compliant: nothing applied, nothing failed.
func Build(systemName, providerName, regulation, regulationVersion string, results []rules.RuleResult) *ComplianceReport {
	summary := Summary{TotalRules: len(results)}
	var gaps Gaps
	criticalFailure := false

	for _, r := range results {
		switch r.Verdict {
		case rules.VerdictPass:
			summary.Passed++
		case rules.VerdictFail:
			summary.Failed++
			if r.Severity == rules.SeverityCritical {
				criticalFailure = true
			}
			gap := Gap{
				RuleID:      r.RuleID,
				Title:       r.Title,
				Severity:    r.Severity,
				Remediation: r.Remediation,
				ArticleRef:  r.ArticleRef,
			}
			switch r.Severity {
			case rules.SeverityCritical:
				gaps.Critical = append(gaps.Critical, gap)
			case rules.SeverityHigh:
				gaps.High = append(gaps.High, gap)
			case rules.SeverityMedium:
				gaps.Medium = append(gaps.Medium, gap)
			}
		case rules.VerdictNotApplicable:
			summary.NotApplicable++
		case rules.VerdictManualReview:
			summary.ManualReview++
		}
	}

	applicable := summary.TotalRules - summary.NotApplicable
	if applicable <= 0 {
		summary.ComplianceScore = 100
	} else {
		summary.ComplianceScore = 100 * float64(summary.Passed) / float64(applicable)
	}

	switch {
	case criticalFailure:
		summary.OverallVerdict = VerdictNonCompliant
	case summary.Failed > 0:
		summary.OverallVerdict = VerdictPartialCompliance
	default:
		summary.OverallVerdict = VerdictCompliant
	}

	return &ComplianceReport{
		ID:                uuid.New().String(),
		GeneratedAt:       time.Now().UTC(),
		SystemName:        systemName,
		ProviderName:      providerName,
		Regulation:        regulation,
		RegulationVersion: regulationVersion,
		Results:           results,
		Summary:           summary,
		Gaps:              gaps,
		Disclaimer:        Disclaimer,
	}
}
