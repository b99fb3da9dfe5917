package euaiact

import "veridex-hq/callisto/pkg/rules"

// Article 10: data and data governance. Training, validation and
// testing datasets of high-risk AI systems shall be subject to data
// governance and management practices appropriate for the intended
// purpose. Most checks here are additionally gated on the system
// actually using training data.

func art10Evaluators() map[string]rules.EvaluatorFunc {
	trainingGate := func(snapshot map[string]any) (rules.Verdict, string, bool) {
		if !highRisk(snapshot) {
			return rules.VerdictNotApplicable, notHighRiskDetail, false
		}
		if !getBool(snapshot, "uses_training_data") {
			return rules.VerdictNotApplicable, "system does not use training data", false
		}
		return "", "", true
	}

	return map[string]rules.EvaluatorFunc{
		"RULE-EU-AI-ACT-010-02-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if v, d, ok := trainingGate(snapshot); !ok {
				return v, d, nil
			}
			return passFail(getBool(snapshot, "data_governance_practices_documented"),
				"data governance practices are not documented")
		},
		"RULE-EU-AI-ACT-010-02A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if v, d, ok := trainingGate(snapshot); !ok {
				return v, d, nil
			}
			return passFail(getBool(snapshot, "data_collection_process_documented"),
				"data collection process is not documented")
		},
		"RULE-EU-AI-ACT-010-02B-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if v, d, ok := trainingGate(snapshot); !ok {
				return v, d, nil
			}
			return passFail(extraBool(snapshot, "data_preprocessing_documented", false),
				"data preprocessing operations are not documented")
		},
		"RULE-EU-AI-ACT-010-03-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if v, d, ok := trainingGate(snapshot); !ok {
				return v, d, nil
			}
			return passFail(getBool(snapshot, "training_data_relevance_documented"),
				"training data relevance is not documented")
		},
		"RULE-EU-AI-ACT-010-04-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if v, d, ok := trainingGate(snapshot); !ok {
				return v, d, nil
			}
			return passFail(extraBool(snapshot, "data_representativeness_documented", false),
				"data representativeness for the deployment context is not documented")
		},
		"RULE-EU-AI-ACT-010-02F-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if v, d, ok := trainingGate(snapshot); !ok {
				return v, d, nil
			}
			bias := getMap(snapshot, "bias_examination_report")
			if bias == nil {
				return rules.VerdictFail, "no bias examination report provided", nil
			}
			coversAll := getBool(bias, "covers_health_safety") &&
				getBool(bias, "covers_fundamental_rights") &&
				getBool(bias, "covers_prohibited_discrimination")
			return passFail(coversAll, "bias examination does not cover all required grounds")
		},
		"RULE-EU-AI-ACT-010-05-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			if !extraBool(snapshot, "processes_special_category_data", false) {
				return rules.VerdictNotApplicable, "system does not process special category data", nil
			}
			return passFail(extraBool(snapshot, "special_data_safeguards_in_place", false),
				"no safeguards for special category data processing")
		},
		"RULE-EU-AI-ACT-010-01-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if v, d, ok := trainingGate(snapshot); !ok {
				return v, d, nil
			}
			return passFail(len(getList(snapshot, "dataset_names")) > 0,
				"no training, validation or testing datasets identified")
		},
	}
}

func art10Rules() []*rules.Rule {
	return []*rules.Rule{
		{
			ID:              "RULE-EU-AI-ACT-010-02-001",
			RequirementID:   "REQ-EU-AI-ACT-010-02-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Data governance practices must be documented",
			Description:     "Verify that data governance and management practices are documented and appropriate for the intended purpose.",
			InputsNeeded:    []string{"is_high_risk", "uses_training_data", "data_governance_practices_documented"},
			EvaluationLogic: "data_governance",
			Severity:        rules.SeverityHigh,
			Remediation:     "Document data governance and management practices covering the full data lifecycle.",
			TestCases: []rules.TestCase{
				{ID: "TC-010-02-P", Description: "Governance documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "data_governance_practices_documented": true}, Expected: rules.VerdictPass},
				{ID: "TC-010-02-F", Description: "Governance missing", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "data_governance_practices_documented": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(10, 2, "", "subject to data governance and management practices")},
		},
		{
			ID:              "RULE-EU-AI-ACT-010-02A-001",
			RequirementID:   "REQ-EU-AI-ACT-010-02A-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Data collection process must be documented",
			Description:     "Verify that data collection processes and data origin are documented.",
			InputsNeeded:    []string{"is_high_risk", "uses_training_data", "data_collection_process_documented"},
			EvaluationLogic: "data_collection_documented",
			Severity:        rules.SeverityMedium,
			Remediation:     "Document data collection processes including sources, methods, and original purpose.",
			TestCases: []rules.TestCase{
				{ID: "TC-010-2A-P", Description: "Collection documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "data_collection_process_documented": true}, Expected: rules.VerdictPass},
				{ID: "TC-010-2A-F", Description: "Collection not documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "data_collection_process_documented": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(10, 2, "a", "data collection processes and their origin")},
		},
		{
			ID:              "RULE-EU-AI-ACT-010-02B-001",
			RequirementID:   "REQ-EU-AI-ACT-010-02B-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Data preprocessing operations must be documented",
			Description:     "Verify that data-preparation processing operations are documented.",
			InputsNeeded:    []string{"is_high_risk", "uses_training_data", "extra.data_preprocessing_documented"},
			EvaluationLogic: "data_preprocessing",
			Severity:        rules.SeverityMedium,
			Remediation:     "Document all data-preparation operations including annotation, labelling, cleaning and enrichment procedures.",
			TestCases: []rules.TestCase{
				{ID: "TC-010-2B-P", Description: "Preprocessing documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "extra": map[string]any{"data_preprocessing_documented": true}}, Expected: rules.VerdictPass},
				{ID: "TC-010-2B-F", Description: "Preprocessing not documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "extra": map[string]any{"data_preprocessing_documented": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(10, 2, "b", "data-preparation processing operations")},
		},
		{
			ID:              "RULE-EU-AI-ACT-010-03-001",
			RequirementID:   "REQ-EU-AI-ACT-010-03-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Training data relevance must be documented",
			Description:     "Verify that training data relevance for the intended purpose is documented.",
			InputsNeeded:    []string{"is_high_risk", "uses_training_data", "training_data_relevance_documented"},
			EvaluationLogic: "data_relevance",
			Severity:        rules.SeverityHigh,
			Remediation:     "Document how training datasets are relevant and representative for the intended purpose.",
			TestCases: []rules.TestCase{
				{ID: "TC-010-03-P", Description: "Relevance documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "training_data_relevance_documented": true}, Expected: rules.VerdictPass},
				{ID: "TC-010-03-F", Description: "Relevance not documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "training_data_relevance_documented": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(10, 3, "", "relevant, sufficiently representative, and to the best extent possible, free of errors")},
		},
		{
			ID:              "RULE-EU-AI-ACT-010-04-001",
			RequirementID:   "REQ-EU-AI-ACT-010-04-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Data representativeness for deployment context must be documented",
			Description:     "Verify that datasets account for the geographical, contextual and functional settings of deployment.",
			InputsNeeded:    []string{"is_high_risk", "uses_training_data", "extra.data_representativeness_documented"},
			EvaluationLogic: "data_representativeness",
			Severity:        rules.SeverityMedium,
			Remediation:     "Document how training data accounts for the specific deployment context and population characteristics.",
			TestCases: []rules.TestCase{
				{ID: "TC-010-04-P", Description: "Representativeness documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "extra": map[string]any{"data_representativeness_documented": true}}, Expected: rules.VerdictPass},
				{ID: "TC-010-04-F", Description: "Representativeness not documented", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "extra": map[string]any{"data_representativeness_documented": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(10, 4, "", "characteristics or elements that are particular to the specific geographical, contextual, behavioural or functional setting")},
		},
		{
			ID:              "RULE-EU-AI-ACT-010-02F-001",
			RequirementID:   "REQ-EU-AI-ACT-010-02F-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Bias examination must cover health, safety, fundamental rights and discrimination",
			Description:     "Verify that a bias examination has been conducted covering health/safety, fundamental rights, and prohibited discrimination.",
			InputsNeeded:    []string{"is_high_risk", "uses_training_data", "bias_examination_report"},
			EvaluationLogic: "bias_examination",
			Severity:        rules.SeverityCritical,
			Remediation:     "Conduct a comprehensive bias examination covering health/safety impacts, fundamental rights implications, and prohibited discrimination grounds.",
			TestCases: []rules.TestCase{
				{ID: "TC-010-2F-P", Description: "Full bias examination", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "bias_examination_report": map[string]any{"covers_health_safety": true, "covers_fundamental_rights": true, "covers_prohibited_discrimination": true}}, Expected: rules.VerdictPass},
				{ID: "TC-010-2F-F", Description: "Incomplete bias examination", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "bias_examination_report": map[string]any{"covers_health_safety": true, "covers_fundamental_rights": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(10, 2, "f", "examination in view of possible biases")},
		},
		{
			ID:              "RULE-EU-AI-ACT-010-05-001",
			RequirementID:   "REQ-EU-AI-ACT-010-05-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Special category data processing must have appropriate safeguards",
			Description:     "Verify that processing of special categories of personal data is strictly necessary and has appropriate safeguards.",
			InputsNeeded:    []string{"is_high_risk", "extra.processes_special_category_data", "extra.special_data_safeguards_in_place"},
			EvaluationLogic: "special_data_safeguards",
			Severity:        rules.SeverityHigh,
			Remediation:     "Implement appropriate safeguards for any processing of special categories of personal data.",
			TestCases: []rules.TestCase{
				{ID: "TC-010-05-P", Description: "Safeguards in place", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"processes_special_category_data": true, "special_data_safeguards_in_place": true}}, Expected: rules.VerdictPass},
				{ID: "TC-010-05-NA", Description: "No special data", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"processes_special_category_data": false, "special_data_safeguards_in_place": false}}, Expected: rules.VerdictNotApplicable},
			},
			Citations: []rules.Citation{cite(10, 5, "", "appropriate safeguards for the fundamental rights and freedoms")},
		},
		{
			ID:              "RULE-EU-AI-ACT-010-01-001",
			RequirementID:   "REQ-EU-AI-ACT-010-01-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Datasets meeting quality criteria must be used",
			Description:     "Verify that training, validation and testing datasets are identified and meet quality criteria.",
			InputsNeeded:    []string{"is_high_risk", "uses_training_data", "dataset_names"},
			EvaluationLogic: "dataset_quality",
			Severity:        rules.SeverityHigh,
			Remediation:     "Identify and document all training, validation and testing datasets with their quality criteria.",
			TestCases: []rules.TestCase{
				{ID: "TC-010-01-P", Description: "Datasets identified", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "dataset_names": []any{"train_v1"}}, Expected: rules.VerdictPass},
				{ID: "TC-010-01-F", Description: "No datasets", InputData: map[string]any{"is_high_risk": true, "uses_training_data": true, "dataset_names": []any{}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(10, 1, "", "training, validation and testing data sets that meet the quality criteria")},
		},
	}
}
