package euaiact

import "veridex-hq/callisto/pkg/rules"

// Article 15: accuracy, robustness and cybersecurity.

func art15Evaluators() map[string]rules.EvaluatorFunc {
	return map[string]rules.EvaluatorFunc{
		"RULE-EU-AI-ACT-015-01-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "accuracy_metrics_documented"),
				"accuracy metrics are not documented")
		},
		"RULE-EU-AI-ACT-015-02-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getString(snapshot, "accuracy_levels_declared") != "",
				"accuracy levels are not declared")
		},
		"RULE-EU-AI-ACT-015-02A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "disaggregated_performance_metrics"),
				"no disaggregated performance metrics provided")
		},
		"RULE-EU-AI-ACT-015-03-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(len(getList(snapshot, "robustness_measures")) >= 1,
				"no robustness measures implemented")
		},
		"RULE-EU-AI-ACT-015-03A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(len(getList(snapshot, "robustness_measures")) >= 2,
				"fewer than two technical and organisational robustness measures")
		},
		"RULE-EU-AI-ACT-015-04-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "adversarial_testing_performed"),
				"no adversarial testing performed")
		},
		"RULE-EU-AI-ACT-015-04A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(len(getList(snapshot, "cybersecurity_measures")) >= 2,
				"fewer than two cybersecurity measures implemented")
		},
		"RULE-EU-AI-ACT-015-05-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			if !extraBool(snapshot, "continuous_learning", false) {
				return rules.VerdictNotApplicable, "system does not learn continuously after deployment", nil
			}
			return passFail(extraBool(snapshot, "feedback_loop_mitigation", false),
				"feedback loop risks are not mitigated")
		},
	}
}

func art15Rules() []*rules.Rule {
	return []*rules.Rule{
		{
			ID:              "RULE-EU-AI-ACT-015-01-001",
			RequirementID:   "REQ-EU-AI-ACT-015-01-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Accuracy metrics must be documented",
			Description:     "Verify that accuracy metrics have been documented demonstrating appropriate accuracy levels.",
			InputsNeeded:    []string{"is_high_risk", "accuracy_metrics_documented"},
			EvaluationLogic: "accuracy_documented",
			Severity:        rules.SeverityHigh,
			Remediation:     "Document accuracy metrics with benchmarks demonstrating appropriate performance levels.",
			TestCases: []rules.TestCase{
				{ID: "TC-015-01-P", Description: "Metrics documented", InputData: map[string]any{"is_high_risk": true, "accuracy_metrics_documented": true}, Expected: rules.VerdictPass},
				{ID: "TC-015-01-F", Description: "No metrics", InputData: map[string]any{"is_high_risk": true, "accuracy_metrics_documented": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(15, 1, "", "achieve an appropriate level of accuracy")},
		},
		{
			ID:              "RULE-EU-AI-ACT-015-02-001",
			RequirementID:   "REQ-EU-AI-ACT-015-02-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Accuracy levels must be declared in instructions",
			Description:     "Verify that accuracy levels and relevant metrics are declared in the instructions of use.",
			InputsNeeded:    []string{"is_high_risk", "accuracy_levels_declared"},
			EvaluationLogic: "accuracy_levels",
			Severity:        rules.SeverityHigh,
			Remediation:     "Declare specific accuracy levels and metrics in the instructions for use.",
			TestCases: []rules.TestCase{
				{ID: "TC-015-02-P", Description: "Levels declared", InputData: map[string]any{"is_high_risk": true, "accuracy_levels_declared": "Precision: 0.91, Recall: 0.88"}, Expected: rules.VerdictPass},
				{ID: "TC-015-02-F", Description: "Not declared", InputData: map[string]any{"is_high_risk": true, "accuracy_levels_declared": ""}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(15, 2, "", "levels of accuracy and the relevant accuracy metrics shall be declared")},
		},
		{
			ID:              "RULE-EU-AI-ACT-015-02A-001",
			RequirementID:   "REQ-EU-AI-ACT-015-02A-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Disaggregated performance metrics must be provided",
			Description:     "Verify that accuracy is measured using disaggregated metrics across relevant demographic groups.",
			InputsNeeded:    []string{"is_high_risk", "disaggregated_performance_metrics"},
			EvaluationLogic: "disaggregated_metrics",
			Severity:        rules.SeverityCritical,
			Remediation:     "Measure and declare accuracy using disaggregated metrics across relevant demographic groups.",
			TestCases: []rules.TestCase{
				{ID: "TC-015-2A-P", Description: "Disaggregated metrics", InputData: map[string]any{"is_high_risk": true, "disaggregated_performance_metrics": true}, Expected: rules.VerdictPass},
				{ID: "TC-015-2A-F", Description: "No disaggregated metrics", InputData: map[string]any{"is_high_risk": true, "disaggregated_performance_metrics": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(15, 2, "a", "accuracy shall be measured and declared using disaggregated metrics")},
		},
		{
			ID:              "RULE-EU-AI-ACT-015-03-001",
			RequirementID:   "REQ-EU-AI-ACT-015-03-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Robustness measures must be implemented",
			Description:     "Verify that the system has robustness measures against errors, faults and inconsistencies.",
			InputsNeeded:    []string{"is_high_risk", "robustness_measures"},
			EvaluationLogic: "robustness_measures",
			Severity:        rules.SeverityHigh,
			Remediation:     "Implement robustness measures such as input validation, error handling, and redundancy.",
			TestCases: []rules.TestCase{
				{ID: "TC-015-03-P", Description: "Robustness present", InputData: map[string]any{"is_high_risk": true, "robustness_measures": []any{"input validation"}}, Expected: rules.VerdictPass},
				{ID: "TC-015-03-F", Description: "No robustness", InputData: map[string]any{"is_high_risk": true, "robustness_measures": []any{}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(15, 3, "", "resilient as possible regarding errors, faults or inconsistencies")},
		},
		{
			ID:              "RULE-EU-AI-ACT-015-03A-001",
			RequirementID:   "REQ-EU-AI-ACT-015-03A-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Technical and organisational robustness measures must be taken",
			Description:     "Verify that technical and organisational measures ensure robustness including redundancy.",
			InputsNeeded:    []string{"is_high_risk", "robustness_measures"},
			EvaluationLogic: "robustness_technical",
			Severity:        rules.SeverityMedium,
			Remediation:     "Implement both technical and organisational robustness measures including redundancy solutions.",
			TestCases: []rules.TestCase{
				{ID: "TC-015-3A-P", Description: "Multiple measures", InputData: map[string]any{"is_high_risk": true, "robustness_measures": []any{"input validation", "failover"}}, Expected: rules.VerdictPass},
				{ID: "TC-015-3A-F", Description: "Insufficient measures", InputData: map[string]any{"is_high_risk": true, "robustness_measures": []any{"input validation"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(15, 3, "a", "Technical and organisational measures shall be taken")},
		},
		{
			ID:              "RULE-EU-AI-ACT-015-04-001",
			RequirementID:   "REQ-EU-AI-ACT-015-04-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Adversarial testing must be performed",
			Description:     "Verify that the system has been tested for resilience against unauthorized manipulation.",
			InputsNeeded:    []string{"is_high_risk", "adversarial_testing_performed"},
			EvaluationLogic: "adversarial_resilience",
			Severity:        rules.SeverityHigh,
			Remediation:     "Perform adversarial testing to validate resilience against unauthorized third party manipulation.",
			TestCases: []rules.TestCase{
				{ID: "TC-015-04-P", Description: "Testing done", InputData: map[string]any{"is_high_risk": true, "adversarial_testing_performed": true}, Expected: rules.VerdictPass},
				{ID: "TC-015-04-F", Description: "No testing", InputData: map[string]any{"is_high_risk": true, "adversarial_testing_performed": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(15, 4, "", "resilient against attempts by unauthorised third parties")},
		},
		{
			ID:              "RULE-EU-AI-ACT-015-04A-001",
			RequirementID:   "REQ-EU-AI-ACT-015-04A-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Cybersecurity measures must be appropriate",
			Description:     "Verify that cybersecurity measures are implemented including defences against data/model poisoning and adversarial attacks.",
			InputsNeeded:    []string{"is_high_risk", "cybersecurity_measures"},
			EvaluationLogic: "cybersecurity",
			Severity:        rules.SeverityCritical,
			Remediation:     "Implement comprehensive cybersecurity measures covering data poisoning, model poisoning, adversarial examples, and confidentiality attacks.",
			TestCases: []rules.TestCase{
				{ID: "TC-015-4A-P", Description: "Security present", InputData: map[string]any{"is_high_risk": true, "cybersecurity_measures": []any{"input sanitization", "access control"}}, Expected: rules.VerdictPass},
				{ID: "TC-015-4A-F", Description: "Insufficient security", InputData: map[string]any{"is_high_risk": true, "cybersecurity_measures": []any{"access control"}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(15, 4, "a", "technical solutions aimed at ensuring the cybersecurity")},
		},
		{
			ID:              "RULE-EU-AI-ACT-015-05-001",
			RequirementID:   "REQ-EU-AI-ACT-015-05-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Feedback loop risks must be mitigated for continuous learning systems",
			Description:     "Verify that continuous learning systems address feedback loop risks with mitigation measures.",
			InputsNeeded:    []string{"is_high_risk", "extra.continuous_learning", "extra.feedback_loop_mitigation"},
			EvaluationLogic: "feedback_loops",
			Severity:        rules.SeverityHigh,
			Remediation:     "Implement feedback loop mitigation such as data drift monitoring, output monitoring, and retraining safeguards.",
			TestCases: []rules.TestCase{
				{ID: "TC-015-05-P", Description: "Mitigation present", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"continuous_learning": true, "feedback_loop_mitigation": true}}, Expected: rules.VerdictPass},
				{ID: "TC-015-05-NA", Description: "Not continuous", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"continuous_learning": false, "feedback_loop_mitigation": false}}, Expected: rules.VerdictNotApplicable},
			},
			Citations: []rules.Citation{cite(15, 5, "", "feedback loops are duly addressed with appropriate mitigation measures")},
		},
	}
}
