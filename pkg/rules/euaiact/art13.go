package euaiact

import "veridex-hq/callisto/pkg/rules"

// Article 13: transparency and provision of information to deployers.

func art13Evaluators() map[string]rules.EvaluatorFunc {
	return map[string]rules.EvaluatorFunc{
		"RULE-EU-AI-ACT-013-01-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(extraBool(snapshot, "system_operation_transparent", false),
				"system operation is not sufficiently transparent")
		},
		"RULE-EU-AI-ACT-013-02-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "instructions_for_use_provided"),
				"no instructions for use provided")
		},
		"RULE-EU-AI-ACT-013-03A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getString(snapshot, "provider_name") != "",
				"provider identity is not declared")
		},
		"RULE-EU-AI-ACT-013-03B-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "limitations_documented"),
				"system capabilities and limitations are not documented")
		},
		"RULE-EU-AI-ACT-013-03D-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			ok := len(getList(snapshot, "human_oversight_measures")) > 0 &&
				extraBool(snapshot, "oversight_documented_in_instructions", true)
			return passFail(ok, "human oversight measures are not documented in the instructions")
		},
		"RULE-EU-AI-ACT-013-03E-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "intended_purpose_documented"),
				"intended purpose is not documented")
		},
		"RULE-EU-AI-ACT-013-03B-002": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getString(snapshot, "accuracy_levels_declared") != "",
				"accuracy levels are not declared in the instructions")
		},
	}
}

func art13Rules() []*rules.Rule {
	return []*rules.Rule{
		{
			ID:              "RULE-EU-AI-ACT-013-01-001",
			RequirementID:   "REQ-EU-AI-ACT-013-01-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "System operation must be sufficiently transparent",
			Description:     "Verify that the system is designed to ensure operation is transparent enough for deployers to interpret output.",
			InputsNeeded:    []string{"is_high_risk", "extra.system_operation_transparent"},
			EvaluationLogic: "transparency",
			Severity:        rules.SeverityHigh,
			Remediation:     "Design the system with output explanations, confidence scores, or feature attribution to ensure transparency.",
			TestCases: []rules.TestCase{
				{ID: "TC-013-01-P", Description: "Transparent", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"system_operation_transparent": true}}, Expected: rules.VerdictPass},
				{ID: "TC-013-01-F", Description: "Not transparent", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"system_operation_transparent": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(13, 1, "", "operation is sufficiently transparent")},
		},
		{
			ID:              "RULE-EU-AI-ACT-013-02-001",
			RequirementID:   "REQ-EU-AI-ACT-013-02-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Instructions for use must be provided",
			Description:     "Verify that instructions for use are provided in an appropriate digital format.",
			InputsNeeded:    []string{"is_high_risk", "instructions_for_use_provided"},
			EvaluationLogic: "instructions_provided",
			Severity:        rules.SeverityCritical,
			Remediation:     "Create comprehensive instructions for use in digital format for deployers.",
			TestCases: []rules.TestCase{
				{ID: "TC-013-02-P", Description: "Instructions provided", InputData: map[string]any{"is_high_risk": true, "instructions_for_use_provided": true}, Expected: rules.VerdictPass},
				{ID: "TC-013-02-F", Description: "No instructions", InputData: map[string]any{"is_high_risk": true, "instructions_for_use_provided": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(13, 2, "", "accompanied by instructions for use in an appropriate digital format")},
		},
		{
			ID:              "RULE-EU-AI-ACT-013-03A-001",
			RequirementID:   "REQ-EU-AI-ACT-013-03A-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Provider identity must be included in instructions",
			Description:     "Verify that provider identity and contact details are included in instructions.",
			InputsNeeded:    []string{"is_high_risk", "provider_name"},
			EvaluationLogic: "provider_identity",
			Severity:        rules.SeverityMedium,
			Remediation:     "Include complete provider identity and contact details in the instructions for use.",
			TestCases: []rules.TestCase{
				{ID: "TC-013-3A-P", Description: "Provider identified", InputData: map[string]any{"is_high_risk": true, "provider_name": "Acme Corp"}, Expected: rules.VerdictPass},
			},
			Citations: []rules.Citation{cite(13, 3, "a", "identity and the contact details of the provider")},
		},
		{
			ID:              "RULE-EU-AI-ACT-013-03B-001",
			RequirementID:   "REQ-EU-AI-ACT-013-03B-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "System capabilities and limitations must be documented",
			Description:     "Verify that system characteristics, capabilities and limitations of performance are documented.",
			InputsNeeded:    []string{"is_high_risk", "limitations_documented"},
			EvaluationLogic: "capabilities_documented",
			Severity:        rules.SeverityHigh,
			Remediation:     "Document all system capabilities, limitations, and known performance boundaries.",
			TestCases: []rules.TestCase{
				{ID: "TC-013-3B-P", Description: "Limitations documented", InputData: map[string]any{"is_high_risk": true, "limitations_documented": true}, Expected: rules.VerdictPass},
				{ID: "TC-013-3B-F", Description: "No limitation docs", InputData: map[string]any{"is_high_risk": true, "limitations_documented": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(13, 3, "b", "characteristics, capabilities and limitations of performance")},
		},
		{
			ID:              "RULE-EU-AI-ACT-013-03D-001",
			RequirementID:   "REQ-EU-AI-ACT-013-03D-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Human oversight measures must be documented in instructions",
			Description:     "Verify that human oversight measures are described in the instructions for use.",
			InputsNeeded:    []string{"is_high_risk", "human_oversight_measures", "extra.oversight_documented_in_instructions"},
			EvaluationLogic: "human_oversight_docs",
			Severity:        rules.SeverityHigh,
			Remediation:     "Document human oversight measures in the instructions for use, including interpretation guidance.",
			TestCases: []rules.TestCase{
				{ID: "TC-013-3D-P", Description: "Oversight documented", InputData: map[string]any{"is_high_risk": true, "human_oversight_measures": []any{"review"}, "extra": map[string]any{"oversight_documented_in_instructions": true}}, Expected: rules.VerdictPass},
				{ID: "TC-013-3D-F", Description: "No oversight measures", InputData: map[string]any{"is_high_risk": true, "human_oversight_measures": []any{}, "extra": map[string]any{"oversight_documented_in_instructions": true}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(13, 3, "d", "human oversight measures referred to in Article 14")},
		},
		{
			ID:              "RULE-EU-AI-ACT-013-03E-001",
			RequirementID:   "REQ-EU-AI-ACT-013-03E-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Intended purpose must be documented",
			Description:     "Verify that intended purpose is clearly documented in instructions.",
			InputsNeeded:    []string{"is_high_risk", "intended_purpose_documented"},
			EvaluationLogic: "intended_purpose",
			Severity:        rules.SeverityHigh,
			Remediation:     "Clearly document the intended purpose and foreseeable misuse circumstances.",
			TestCases: []rules.TestCase{
				{ID: "TC-013-3E-P", Description: "Purpose documented", InputData: map[string]any{"is_high_risk": true, "intended_purpose_documented": true}, Expected: rules.VerdictPass},
				{ID: "TC-013-3E-F", Description: "Purpose not documented", InputData: map[string]any{"is_high_risk": true, "intended_purpose_documented": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(13, 3, "e", "intended purpose of the AI system")},
		},
		{
			ID:              "RULE-EU-AI-ACT-013-03B-002",
			RequirementID:   "REQ-EU-AI-ACT-013-03B-002",
			Type:            rules.RuleTypeAutomated,
			Title:           "Accuracy levels must be declared in instructions",
			Description:     "Verify that accuracy levels are declared in the instructions for use.",
			InputsNeeded:    []string{"is_high_risk", "accuracy_levels_declared"},
			EvaluationLogic: "accuracy_declared",
			Severity:        rules.SeverityHigh,
			Remediation:     "Declare specific accuracy levels and metrics in the instructions for use.",
			TestCases: []rules.TestCase{
				{ID: "TC-013-3B2-P", Description: "Accuracy declared", InputData: map[string]any{"is_high_risk": true, "accuracy_levels_declared": "F1=0.92"}, Expected: rules.VerdictPass},
				{ID: "TC-013-3B2-F", Description: "No accuracy declared", InputData: map[string]any{"is_high_risk": true, "accuracy_levels_declared": ""}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(13, 3, "b", "the level of accuracy")},
		},
	}
}
