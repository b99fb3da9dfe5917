package euaiact

import "veridex-hq/callisto/pkg/rules"

// Article 9: risk management system. Providers of high-risk AI systems
// shall establish, implement, document and maintain a risk management
// system throughout the entire lifecycle of the system.

func art09Evaluators() map[string]rules.EvaluatorFunc {
	return map[string]rules.EvaluatorFunc{
		"RULE-EU-AI-ACT-009-01-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "risk_management_system_established"),
				"no risk management system established")
		},
		"RULE-EU-AI-ACT-009-02-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "risk_management_continuous"),
				"risk management is not a continuous iterative process")
		},
		"RULE-EU-AI-ACT-009-02A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			ok := getBool(snapshot, "residual_risks_documented") &&
				len(getList(snapshot, "risk_mitigation_measures")) > 0
			return passFail(ok, "known and foreseeable risks are not documented with mitigation measures")
		},
		"RULE-EU-AI-ACT-009-02B-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(extraBool(snapshot, "foreseeable_misuse_documented", false),
				"foreseeable misuse risks have not been evaluated")
		},
		"RULE-EU-AI-ACT-009-02C-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(len(getList(snapshot, "risk_mitigation_measures")) >= 2,
				"fewer than two risk management measures adopted")
		},
		"RULE-EU-AI-ACT-009-03-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(extraBool(snapshot, "risk_measures_interaction_assessed", false),
				"interaction between risk measures has not been assessed")
		},
		"RULE-EU-AI-ACT-009-05-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "testing_procedures_documented"),
				"testing procedures are not documented")
		},
		"RULE-EU-AI-ACT-009-06-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(extraBool(snapshot, "testing_metrics_defined", false),
				"testing metrics and thresholds are not defined")
		},
	}
}

func art09Rules() []*rules.Rule {
	return []*rules.Rule{
		{
			ID:              "RULE-EU-AI-ACT-009-01-001",
			RequirementID:   "REQ-EU-AI-ACT-009-01-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Risk management system must be established",
			Description:     "Verify that a risk management system has been established, implemented, documented and maintained.",
			InputsNeeded:    []string{"is_high_risk", "risk_management_system_established"},
			EvaluationLogic: "rms_established",
			Severity:        rules.SeverityCritical,
			Remediation:     "Establish a formal risk management system covering the full lifecycle of the AI system.",
			TestCases: []rules.TestCase{
				{ID: "TC-009-01-P", Description: "High-risk with RMS", InputData: map[string]any{"is_high_risk": true, "risk_management_system_established": true}, Expected: rules.VerdictPass},
				{ID: "TC-009-01-F", Description: "High-risk without RMS", InputData: map[string]any{"is_high_risk": true, "risk_management_system_established": false}, Expected: rules.VerdictFail},
				{ID: "TC-009-01-NA", Description: "Not high-risk", InputData: map[string]any{"is_high_risk": false}, Expected: rules.VerdictNotApplicable},
			},
			Citations: []rules.Citation{cite(9, 1, "", "A risk management system shall be established, implemented, documented and maintained")},
		},
		{
			ID:              "RULE-EU-AI-ACT-009-02-001",
			RequirementID:   "REQ-EU-AI-ACT-009-02-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Risk management must be continuous and iterative",
			Description:     "Verify that the risk management system is a continuous iterative process throughout the AI system lifecycle.",
			InputsNeeded:    []string{"is_high_risk", "risk_management_continuous"},
			EvaluationLogic: "rms_continuous",
			Severity:        rules.SeverityHigh,
			Remediation:     "Implement continuous risk monitoring with periodic reviews and updates throughout the system lifecycle.",
			TestCases: []rules.TestCase{
				{ID: "TC-009-02-P", Description: "Continuous RMS", InputData: map[string]any{"is_high_risk": true, "risk_management_continuous": true}, Expected: rules.VerdictPass},
				{ID: "TC-009-02-F", Description: "Non-continuous RMS", InputData: map[string]any{"is_high_risk": true, "risk_management_continuous": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(9, 2, "", "continuous iterative process planned and run throughout the entire lifecycle")},
		},
		{
			ID:              "RULE-EU-AI-ACT-009-02A-001",
			RequirementID:   "REQ-EU-AI-ACT-009-02A-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Known and foreseeable risks must be identified",
			Description:     "Verify that the provider has identified and analyzed known and reasonably foreseeable risks to health, safety or fundamental rights.",
			InputsNeeded:    []string{"is_high_risk", "residual_risks_documented", "risk_mitigation_measures"},
			EvaluationLogic: "risk_identification",
			Severity:        rules.SeverityHigh,
			Remediation:     "Document all known and reasonably foreseeable risks with a formal risk identification and analysis process.",
			TestCases: []rules.TestCase{
				{ID: "TC-009-2A-P", Description: "Risks documented", InputData: map[string]any{"is_high_risk": true, "residual_risks_documented": true, "risk_mitigation_measures": []any{"m1"}}, Expected: rules.VerdictPass},
				{ID: "TC-009-2A-F", Description: "Risks not documented", InputData: map[string]any{"is_high_risk": true, "residual_risks_documented": false, "risk_mitigation_measures": []any{}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(9, 2, "a", "identification and analysis of the known and reasonably foreseeable risks")},
		},
		{
			ID:              "RULE-EU-AI-ACT-009-02B-001",
			RequirementID:   "REQ-EU-AI-ACT-009-02B-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Foreseeable misuse risks must be evaluated",
			Description:     "Verify that risks from foreseeable misuse have been estimated and evaluated.",
			InputsNeeded:    []string{"is_high_risk", "extra.foreseeable_misuse_documented"},
			EvaluationLogic: "misuse_risks",
			Severity:        rules.SeverityHigh,
			Remediation:     "Conduct a misuse scenario analysis and document risk estimates for each foreseeable misuse case.",
			TestCases: []rules.TestCase{
				{ID: "TC-009-2B-P", Description: "Misuse documented", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"foreseeable_misuse_documented": true}}, Expected: rules.VerdictPass},
				{ID: "TC-009-2B-F", Description: "Misuse not documented", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"foreseeable_misuse_documented": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(9, 2, "b", "estimation and evaluation of the risks that may emerge")},
		},
		{
			ID:              "RULE-EU-AI-ACT-009-02C-001",
			RequirementID:   "REQ-EU-AI-ACT-009-02C-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Risk management measures must be adopted",
			Description:     "Verify that appropriate and targeted risk management measures have been adopted.",
			InputsNeeded:    []string{"is_high_risk", "risk_mitigation_measures"},
			EvaluationLogic: "risk_measures",
			Severity:        rules.SeverityHigh,
			Remediation:     "Define and implement at least two risk management measures that address the identified risks.",
			TestCases: []rules.TestCase{
				{ID: "TC-009-2C-P", Description: "Multiple measures", InputData: map[string]any{"is_high_risk": true, "risk_mitigation_measures": []any{"m1", "m2"}}, Expected: rules.VerdictPass},
				{ID: "TC-009-2C-F", Description: "Insufficient measures", InputData: map[string]any{"is_high_risk": true, "risk_mitigation_measures": []any{"m1"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(9, 2, "c", "adoption of appropriate and targeted risk management measures")},
		},
		{
			ID:              "RULE-EU-AI-ACT-009-03-001",
			RequirementID:   "REQ-EU-AI-ACT-009-03-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Risk measures interaction must be assessed",
			Description:     "Verify that risk management measures consider interaction effects and achieve appropriate balance.",
			InputsNeeded:    []string{"is_high_risk", "extra.risk_measures_interaction_assessed"},
			EvaluationLogic: "measures_balance",
			Severity:        rules.SeverityMedium,
			Remediation:     "Document how risk management measures interact with each other and demonstrate an appropriate balance.",
			TestCases: []rules.TestCase{
				{ID: "TC-009-03-P", Description: "Interaction assessed", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"risk_measures_interaction_assessed": true}}, Expected: rules.VerdictPass},
				{ID: "TC-009-03-F", Description: "Interaction not assessed", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"risk_measures_interaction_assessed": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(9, 3, "", "give due consideration to the effects and possible interaction of the measures")},
		},
		{
			ID:              "RULE-EU-AI-ACT-009-05-001",
			RequirementID:   "REQ-EU-AI-ACT-009-05-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "System testing procedures must be documented",
			Description:     "Verify that the system has been tested with documented procedures to identify risk management measures.",
			InputsNeeded:    []string{"is_high_risk", "testing_procedures_documented"},
			EvaluationLogic: "testing_documented",
			Severity:        rules.SeverityHigh,
			Remediation:     "Implement and document testing procedures to identify the most appropriate risk management measures.",
			TestCases: []rules.TestCase{
				{ID: "TC-009-05-P", Description: "Testing documented", InputData: map[string]any{"is_high_risk": true, "testing_procedures_documented": true}, Expected: rules.VerdictPass},
				{ID: "TC-009-05-F", Description: "Testing not documented", InputData: map[string]any{"is_high_risk": true, "testing_procedures_documented": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(9, 5, "", "High-risk AI systems shall be tested")},
		},
		{
			ID:              "RULE-EU-AI-ACT-009-06-001",
			RequirementID:   "REQ-EU-AI-ACT-009-06-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Testing must use defined metrics and thresholds",
			Description:     "Verify that testing is carried out against prior defined metrics and probabilistic thresholds.",
			InputsNeeded:    []string{"is_high_risk", "extra.testing_metrics_defined"},
			EvaluationLogic: "testing_metrics",
			Severity:        rules.SeverityMedium,
			Remediation:     "Define explicit metrics and probabilistic thresholds for all testing procedures.",
			TestCases: []rules.TestCase{
				{ID: "TC-009-06-P", Description: "Metrics defined", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"testing_metrics_defined": true}}, Expected: rules.VerdictPass},
				{ID: "TC-009-06-F", Description: "Metrics not defined", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"testing_metrics_defined": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(9, 6, "", "Testing shall be carried out against prior defined metrics and probabilistic thresholds")},
		},
	}
}
