package euaiact

import "veridex-hq/callisto/pkg/rules"

// Article 12: record keeping. High-risk AI systems shall technically
// allow for the automatic recording of events over their lifetime.

func art12Evaluators() map[string]rules.EvaluatorFunc {
	return map[string]rules.EvaluatorFunc{
		"RULE-EU-AI-ACT-012-01-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "automatic_logging_enabled"),
				"automatic event logging is not enabled")
		},
		"RULE-EU-AI-ACT-012-02-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			caps := getList(snapshot, "logging_capabilities")
			return passFail(anyContains(caps, "risk", "incident"),
				"logging does not capture risk-relevant events")
		},
		"RULE-EU-AI-ACT-012-03-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(extraBool(snapshot, "logging_conforms_to_standards", false),
				"logging does not conform to recognised standards")
		},
		"RULE-EU-AI-ACT-012-04-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(len(getList(snapshot, "logging_capabilities")) >= 2,
				"logging capabilities are insufficient for lifecycle traceability")
		},
		"RULE-EU-AI-ACT-012-04A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			caps := getList(snapshot, "logging_capabilities")
			return passFail(anyContains(caps, "monitor", "operation"),
				"logging does not enable operational monitoring")
		},
		"RULE-EU-AI-ACT-012-04B-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(extraBool(snapshot, "post_market_monitoring_supported", false),
				"logging does not facilitate post-market monitoring")
		},
		"RULE-EU-AI-ACT-012-04C-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			caps := getList(snapshot, "logging_capabilities")
			return passFail(anyContains(caps, "usage", "period", "session"),
				"logging does not record usage periods")
		},
	}
}

func art12Rules() []*rules.Rule {
	return []*rules.Rule{
		{
			ID:              "RULE-EU-AI-ACT-012-01-001",
			RequirementID:   "REQ-EU-AI-ACT-012-01-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Automatic event logging must be enabled",
			Description:     "Verify that the system technically supports automatic recording of events (logs).",
			InputsNeeded:    []string{"is_high_risk", "automatic_logging_enabled"},
			EvaluationLogic: "logging_enabled",
			Severity:        rules.SeverityCritical,
			Remediation:     "Implement automatic event logging throughout the system lifecycle.",
			TestCases: []rules.TestCase{
				{ID: "TC-012-01-P", Description: "Logging enabled", InputData: map[string]any{"is_high_risk": true, "automatic_logging_enabled": true}, Expected: rules.VerdictPass},
				{ID: "TC-012-01-F", Description: "Logging disabled", InputData: map[string]any{"is_high_risk": true, "automatic_logging_enabled": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(12, 1, "", "shall technically allow for the automatic recording of events")},
		},
		{
			ID:              "RULE-EU-AI-ACT-012-02-001",
			RequirementID:   "REQ-EU-AI-ACT-012-02-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Risk-relevant events must be logged",
			Description:     "Verify that logging captures events relevant to risk identification.",
			InputsNeeded:    []string{"is_high_risk", "logging_capabilities"},
			EvaluationLogic: "logging_risk_events",
			Severity:        rules.SeverityHigh,
			Remediation:     "Add logging for risk-relevant events including anomalies, errors, and safety-critical decisions.",
			TestCases: []rules.TestCase{
				{ID: "TC-012-02-P", Description: "Risk logging present", InputData: map[string]any{"is_high_risk": true, "logging_capabilities": []any{"risk event tracking"}}, Expected: rules.VerdictPass},
				{ID: "TC-012-02-F", Description: "No risk logging", InputData: map[string]any{"is_high_risk": true, "logging_capabilities": []any{"basic access logs"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(12, 2, "", "recording of events relevant to the identification of situations")},
		},
		{
			ID:              "RULE-EU-AI-ACT-012-03-001",
			RequirementID:   "REQ-EU-AI-ACT-012-03-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Logging must conform to recognised standards",
			Description:     "Verify that logging capabilities conform to recognised standards or common specifications.",
			InputsNeeded:    []string{"is_high_risk", "extra.logging_conforms_to_standards"},
			EvaluationLogic: "logging_standards",
			Severity:        rules.SeverityMedium,
			Remediation:     "Align logging capabilities with recognised standards such as ISO 27001 or equivalent.",
			TestCases: []rules.TestCase{
				{ID: "TC-012-03-P", Description: "Standards compliant", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"logging_conforms_to_standards": true}}, Expected: rules.VerdictPass},
				{ID: "TC-012-03-F", Description: "No standards", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"logging_conforms_to_standards": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(12, 3, "", "conform to recognised standards or common specifications")},
		},
		{
			ID:              "RULE-EU-AI-ACT-012-04-001",
			RequirementID:   "REQ-EU-AI-ACT-012-04-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Logging must ensure lifecycle traceability",
			Description:     "Verify that logging capabilities ensure traceability throughout the system lifecycle.",
			InputsNeeded:    []string{"is_high_risk", "logging_capabilities"},
			EvaluationLogic: "logging_traceability",
			Severity:        rules.SeverityHigh,
			Remediation:     "Implement comprehensive logging covering all lifecycle stages with sufficient detail for traceability.",
			TestCases: []rules.TestCase{
				{ID: "TC-012-04-P", Description: "Sufficient logging", InputData: map[string]any{"is_high_risk": true, "logging_capabilities": []any{"input/output logging", "decision audit trail"}}, Expected: rules.VerdictPass},
				{ID: "TC-012-04-F", Description: "Insufficient logging", InputData: map[string]any{"is_high_risk": true, "logging_capabilities": []any{"basic"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(12, 4, "", "traceability of the AI system's functioning throughout its lifecycle")},
		},
		{
			ID:              "RULE-EU-AI-ACT-012-04A-001",
			RequirementID:   "REQ-EU-AI-ACT-012-04A-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Logging must enable operational monitoring",
			Description:     "Verify that logging enables monitoring of the AI system operation.",
			InputsNeeded:    []string{"is_high_risk", "logging_capabilities"},
			EvaluationLogic: "logging_monitoring",
			Severity:        rules.SeverityMedium,
			Remediation:     "Add operational monitoring capabilities to the logging system.",
			TestCases: []rules.TestCase{
				{ID: "TC-012-4A-P", Description: "Monitoring enabled", InputData: map[string]any{"is_high_risk": true, "logging_capabilities": []any{"operational monitoring"}}, Expected: rules.VerdictPass},
				{ID: "TC-012-4A-F", Description: "No monitoring", InputData: map[string]any{"is_high_risk": true, "logging_capabilities": []any{"basic"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(12, 4, "a", "enable the monitoring of the operation")},
		},
		{
			ID:              "RULE-EU-AI-ACT-012-04B-001",
			RequirementID:   "REQ-EU-AI-ACT-012-04B-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Logging must facilitate post-market monitoring",
			Description:     "Verify that logging facilitates post-market monitoring as per Article 72.",
			InputsNeeded:    []string{"is_high_risk", "extra.post_market_monitoring_supported"},
			EvaluationLogic: "post_market",
			Severity:        rules.SeverityMedium,
			Remediation:     "Implement logging features that support post-market monitoring requirements.",
			TestCases: []rules.TestCase{
				{ID: "TC-012-4B-P", Description: "Post-market supported", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"post_market_monitoring_supported": true}}, Expected: rules.VerdictPass},
				{ID: "TC-012-4B-F", Description: "Post-market not supported", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"post_market_monitoring_supported": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(12, 4, "b", "facilitate the post-market monitoring")},
		},
		{
			ID:              "RULE-EU-AI-ACT-012-04C-001",
			RequirementID:   "REQ-EU-AI-ACT-012-04C-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Usage periods and verification personnel must be recorded",
			Description:     "Verify that logging records usage periods, reference databases, and verification personnel.",
			InputsNeeded:    []string{"is_high_risk", "logging_capabilities"},
			EvaluationLogic: "usage_records",
			Severity:        rules.SeverityMedium,
			Remediation:     "Add logging of usage sessions, reference database checks, and human verification records.",
			TestCases: []rules.TestCase{
				{ID: "TC-012-4C-P", Description: "Usage recorded", InputData: map[string]any{"is_high_risk": true, "logging_capabilities": []any{"session usage tracking"}}, Expected: rules.VerdictPass},
				{ID: "TC-012-4C-F", Description: "No usage recording", InputData: map[string]any{"is_high_risk": true, "logging_capabilities": []any{"error logs"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(12, 4, "c", "recording of the period of each use of the system")},
		},
	}
}
