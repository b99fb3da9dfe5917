package euaiact

import "veridex-hq/callisto/pkg/rules"

// Article 14: human oversight. High-risk AI systems shall be designed
// so that they can be effectively overseen by natural persons.

func art14Evaluators() map[string]rules.EvaluatorFunc {
	return map[string]rules.EvaluatorFunc{
		"RULE-EU-AI-ACT-014-01-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(len(getList(snapshot, "human_oversight_measures")) >= 1,
				"no human oversight measures implemented")
		},
		"RULE-EU-AI-ACT-014-02-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(len(getList(snapshot, "human_oversight_measures")) >= 2,
				"fewer than two oversight measures targeting identified risks")
		},
		"RULE-EU-AI-ACT-014-04A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			ok := getBool(snapshot, "limitations_documented") &&
				getBool(snapshot, "instructions_for_use_provided")
			return passFail(ok, "oversight personnel cannot learn the system's capabilities and limitations")
		},
		"RULE-EU-AI-ACT-014-04B-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(len(getList(snapshot, "automation_bias_safeguards")) >= 1,
				"no automation bias safeguards implemented")
		},
		"RULE-EU-AI-ACT-014-04C-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(extraBool(snapshot, "output_interpretation_tools", false),
				"no output interpretation tools available")
		},
		"RULE-EU-AI-ACT-014-04D-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "human_can_override"),
				"humans cannot override the system's output")
		},
		"RULE-EU-AI-ACT-014-04E-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "human_can_interrupt"),
				"humans cannot interrupt the system")
		},
		"RULE-EU-AI-ACT-014-05-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			measures := getList(snapshot, "human_oversight_measures")
			return passFail(anyContains(measures, "monitor"),
				"no monitoring capability among oversight measures")
		},
	}
}

func art14Rules() []*rules.Rule {
	return []*rules.Rule{
		{
			ID:              "RULE-EU-AI-ACT-014-01-001",
			RequirementID:   "REQ-EU-AI-ACT-014-01-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Human oversight measures must be implemented",
			Description:     "Verify that the system is designed with human oversight measures for natural persons.",
			InputsNeeded:    []string{"is_high_risk", "human_oversight_measures"},
			EvaluationLogic: "oversight_measures",
			Severity:        rules.SeverityCritical,
			Remediation:     "Implement human oversight measures including human-machine interface tools.",
			TestCases: []rules.TestCase{
				{ID: "TC-014-01-P", Description: "Oversight exists", InputData: map[string]any{"is_high_risk": true, "human_oversight_measures": []any{"manual review"}}, Expected: rules.VerdictPass},
				{ID: "TC-014-01-F", Description: "No oversight", InputData: map[string]any{"is_high_risk": true, "human_oversight_measures": []any{}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(14, 1, "", "effectively overseen by natural persons")},
		},
		{
			ID:              "RULE-EU-AI-ACT-014-02-001",
			RequirementID:   "REQ-EU-AI-ACT-014-02-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Oversight must minimise risks effectively",
			Description:     "Verify that human oversight measures are sufficient to minimise risks to health, safety and fundamental rights.",
			InputsNeeded:    []string{"is_high_risk", "human_oversight_measures"},
			EvaluationLogic: "oversight_risk_min",
			Severity:        rules.SeverityHigh,
			Remediation:     "Implement multiple oversight measures that specifically target identified risks.",
			TestCases: []rules.TestCase{
				{ID: "TC-014-02-P", Description: "Multiple measures", InputData: map[string]any{"is_high_risk": true, "human_oversight_measures": []any{"review", "approval"}}, Expected: rules.VerdictPass},
				{ID: "TC-014-02-F", Description: "Insufficient measures", InputData: map[string]any{"is_high_risk": true, "human_oversight_measures": []any{"review"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(14, 2, "", "minimising the risks to health, safety or fundamental rights")},
		},
		{
			ID:              "RULE-EU-AI-ACT-014-04A-001",
			RequirementID:   "REQ-EU-AI-ACT-014-04A-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Oversight personnel must understand system capabilities and limitations",
			Description:     "Verify that oversight measures enable understanding of system capacities and limitations.",
			InputsNeeded:    []string{"is_high_risk", "limitations_documented", "instructions_for_use_provided"},
			EvaluationLogic: "understand_capabilities",
			Severity:        rules.SeverityHigh,
			Remediation:     "Ensure limitations are documented and instructions for use are provided to oversight personnel.",
			TestCases: []rules.TestCase{
				{ID: "TC-014-4A-P", Description: "Understanding enabled", InputData: map[string]any{"is_high_risk": true, "limitations_documented": true, "instructions_for_use_provided": true}, Expected: rules.VerdictPass},
				{ID: "TC-014-4A-F", Description: "No limitation docs", InputData: map[string]any{"is_high_risk": true, "limitations_documented": false, "instructions_for_use_provided": true}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(14, 4, "a", "fully understand the capacities and limitations")},
		},
		{
			ID:              "RULE-EU-AI-ACT-014-04B-001",
			RequirementID:   "REQ-EU-AI-ACT-014-04B-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Automation bias safeguards must be implemented",
			Description:     "Verify that safeguards against automation bias are implemented, especially for decision-support systems.",
			InputsNeeded:    []string{"is_high_risk", "automation_bias_safeguards"},
			EvaluationLogic: "automation_bias",
			Severity:        rules.SeverityCritical,
			Remediation:     "Implement automation bias safeguards such as mandatory confirmation steps, uncertainty indicators, or periodic human-only reviews.",
			TestCases: []rules.TestCase{
				{ID: "TC-014-4B-P", Description: "Safeguards exist", InputData: map[string]any{"is_high_risk": true, "automation_bias_safeguards": []any{"confirmation step"}}, Expected: rules.VerdictPass},
				{ID: "TC-014-4B-F", Description: "No safeguards", InputData: map[string]any{"is_high_risk": true, "automation_bias_safeguards": []any{}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(14, 4, "b", "automation bias")},
		},
		{
			ID:              "RULE-EU-AI-ACT-014-04C-001",
			RequirementID:   "REQ-EU-AI-ACT-014-04C-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Output interpretation tools must be available",
			Description:     "Verify that tools and methods for correct interpretation of system output are available.",
			InputsNeeded:    []string{"is_high_risk", "extra.output_interpretation_tools"},
			EvaluationLogic: "output_interpretation",
			Severity:        rules.SeverityMedium,
			Remediation:     "Provide interpretation tools such as confidence scores, feature importance, or SHAP values.",
			TestCases: []rules.TestCase{
				{ID: "TC-014-4C-P", Description: "Tools available", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"output_interpretation_tools": true}}, Expected: rules.VerdictPass},
				{ID: "TC-014-4C-F", Description: "No tools", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"output_interpretation_tools": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(14, 4, "c", "correctly interpret the high-risk AI system's output")},
		},
		{
			ID:              "RULE-EU-AI-ACT-014-04D-001",
			RequirementID:   "REQ-EU-AI-ACT-014-04D-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Human override capability must be available",
			Description:     "Verify that humans can override, reverse or disregard the AI system's output.",
			InputsNeeded:    []string{"is_high_risk", "human_can_override"},
			EvaluationLogic: "human_override",
			Severity:        rules.SeverityCritical,
			Remediation:     "Implement mechanisms allowing human operators to override or reverse AI decisions.",
			TestCases: []rules.TestCase{
				{ID: "TC-014-4D-P", Description: "Override available", InputData: map[string]any{"is_high_risk": true, "human_can_override": true}, Expected: rules.VerdictPass},
				{ID: "TC-014-4D-F", Description: "No override", InputData: map[string]any{"is_high_risk": true, "human_can_override": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(14, 4, "d", "override or reverse the output")},
		},
		{
			ID:              "RULE-EU-AI-ACT-014-04E-001",
			RequirementID:   "REQ-EU-AI-ACT-014-04E-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "System interruption capability must be available",
			Description:     "Verify that humans can interrupt or stop the AI system safely.",
			InputsNeeded:    []string{"is_high_risk", "human_can_interrupt"},
			EvaluationLogic: "human_interrupt",
			Severity:        rules.SeverityCritical,
			Remediation:     "Implement a 'stop' button or similar procedure that allows the system to halt safely.",
			TestCases: []rules.TestCase{
				{ID: "TC-014-4E-P", Description: "Interrupt available", InputData: map[string]any{"is_high_risk": true, "human_can_interrupt": true}, Expected: rules.VerdictPass},
				{ID: "TC-014-4E-F", Description: "No interrupt", InputData: map[string]any{"is_high_risk": true, "human_can_interrupt": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(14, 4, "e", "interrupt the system through a 'stop' button")},
		},
		{
			ID:              "RULE-EU-AI-ACT-014-05-001",
			RequirementID:   "REQ-EU-AI-ACT-014-05-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Oversight personnel must be able to monitor system in use",
			Description:     "Verify that the system is provided to deployers in a way that enables proper monitoring.",
			InputsNeeded:    []string{"is_high_risk", "human_oversight_measures"},
			EvaluationLogic: "monitoring_enabled",
			Severity:        rules.SeverityHigh,
			Remediation:     "Provide monitoring dashboards or tools that enable oversight personnel to monitor system operation in real-time.",
			TestCases: []rules.TestCase{
				{ID: "TC-014-05-P", Description: "Monitoring enabled", InputData: map[string]any{"is_high_risk": true, "human_oversight_measures": []any{"real-time monitoring dashboard"}}, Expected: rules.VerdictPass},
				{ID: "TC-014-05-F", Description: "No monitoring", InputData: map[string]any{"is_high_risk": true, "human_oversight_measures": []any{"approval gate"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(14, 5, "", "enabled to properly monitor the system in use")},
		},
	}
}
