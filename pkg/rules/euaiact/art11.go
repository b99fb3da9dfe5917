package euaiact

import "veridex-hq/callisto/pkg/rules"

// Article 11: technical documentation. Documentation shall be drawn up
// before the system is placed on the market and kept up to date.

func art11Evaluators() map[string]rules.EvaluatorFunc {
	return map[string]rules.EvaluatorFunc{
		"RULE-EU-AI-ACT-011-01-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(getBool(snapshot, "technical_documentation_exists"),
				"no technical documentation exists")
		},
		"RULE-EU-AI-ACT-011-01-002": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			if !getBool(snapshot, "technical_documentation_exists") {
				return rules.VerdictFail, "no technical documentation exists", nil
			}
			return passFail(extraBool(snapshot, "technical_documentation_up_to_date", true),
				"technical documentation is not kept up to date")
		},
		"RULE-EU-AI-ACT-011-01A-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			if !getBool(snapshot, "technical_documentation_exists") {
				return rules.VerdictFail, "no technical documentation exists", nil
			}
			return passFail(extraBool(snapshot, "techdoc_demonstrates_compliance", true),
				"documentation does not demonstrate compliance")
		},
		"RULE-EU-AI-ACT-011-01B-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			if !getBool(snapshot, "technical_documentation_exists") {
				return rules.VerdictFail, "no technical documentation exists", nil
			}
			return passFail(extraBool(snapshot, "techdoc_available_to_authorities", true),
				"documentation is not available to authorities")
		},
		"RULE-EU-AI-ACT-011-01C-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			return passFail(extraBool(snapshot, "techdoc_contains_annex_iv_elements", false),
				"documentation does not cover the Annex IV minimum elements")
		},
		"RULE-EU-AI-ACT-011-01D-001": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			if !getBool(snapshot, "technical_documentation_exists") {
				return rules.VerdictFail, "no technical documentation exists", nil
			}
			return passFail(extraBool(snapshot, "techdoc_clear_and_comprehensive", true),
				"documentation is not clear and comprehensive")
		},
		"RULE-EU-AI-ACT-011-01-003": func(snapshot map[string]any) (rules.Verdict, string, error) {
			if !highRisk(snapshot) {
				return rules.VerdictNotApplicable, notHighRiskDetail, nil
			}
			ok := getBool(snapshot, "technical_documentation_exists") &&
				getString(snapshot, "technical_documentation_url") != ""
			return passFail(ok, "documentation has no accessible location")
		},
	}
}

func art11Rules() []*rules.Rule {
	return []*rules.Rule{
		{
			ID:              "RULE-EU-AI-ACT-011-01-001",
			RequirementID:   "REQ-EU-AI-ACT-011-01-001",
			Type:            rules.RuleTypeAutomated,
			Title:           "Technical documentation must exist before market placement",
			Description:     "Verify that technical documentation has been drawn up before the AI system is placed on the market.",
			InputsNeeded:    []string{"is_high_risk", "technical_documentation_exists"},
			EvaluationLogic: "techdoc_exists",
			Severity:        rules.SeverityCritical,
			Remediation:     "Create comprehensive technical documentation in accordance with Annex IV before placing the system on the market.",
			TestCases: []rules.TestCase{
				{ID: "TC-011-01-P", Description: "Doc exists", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": true}, Expected: rules.VerdictPass},
				{ID: "TC-011-01-F", Description: "Doc missing", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": false}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(11, 1, "", "technical documentation shall be drawn up before that system is placed on the market")},
		},
		{
			ID:              "RULE-EU-AI-ACT-011-01-002",
			RequirementID:   "REQ-EU-AI-ACT-011-01-002",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Technical documentation must be kept up to date",
			Description:     "Verify that technical documentation is kept up to date throughout the system lifecycle.",
			InputsNeeded:    []string{"is_high_risk", "technical_documentation_exists", "extra.technical_documentation_up_to_date"},
			EvaluationLogic: "techdoc_up_to_date",
			Severity:        rules.SeverityHigh,
			Remediation:     "Establish a process for regularly updating technical documentation when changes occur.",
			TestCases: []rules.TestCase{
				{ID: "TC-011-02-P", Description: "Doc up to date", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": true, "extra": map[string]any{"technical_documentation_up_to_date": true}}, Expected: rules.VerdictPass},
				{ID: "TC-011-02-F", Description: "Doc outdated", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": true, "extra": map[string]any{"technical_documentation_up_to_date": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(11, 1, "", "shall be kept up to date")},
		},
		{
			ID:              "RULE-EU-AI-ACT-011-01A-001",
			RequirementID:   "REQ-EU-AI-ACT-011-01A-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Documentation must demonstrate compliance",
			Description:     "Verify that technical documentation demonstrates compliance with the high-risk requirements.",
			InputsNeeded:    []string{"is_high_risk", "technical_documentation_exists", "extra.techdoc_demonstrates_compliance"},
			EvaluationLogic: "techdoc_compliance_demo",
			Severity:        rules.SeverityHigh,
			Remediation:     "Ensure documentation explicitly addresses and demonstrates compliance with each requirement.",
			TestCases: []rules.TestCase{
				{ID: "TC-011-1A-P", Description: "Compliance demonstrated", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": true, "extra": map[string]any{"techdoc_demonstrates_compliance": true}}, Expected: rules.VerdictPass},
			},
			Citations: []rules.Citation{cite(11, 1, "a", "demonstrate that the high-risk AI system complies")},
		},
		{
			ID:              "RULE-EU-AI-ACT-011-01B-001",
			RequirementID:   "REQ-EU-AI-ACT-011-01B-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Documentation must be available to authorities",
			Description:     "Verify that documentation provides authorities with all necessary compliance information.",
			InputsNeeded:    []string{"is_high_risk", "technical_documentation_exists", "extra.techdoc_available_to_authorities"},
			EvaluationLogic: "techdoc_authorities",
			Severity:        rules.SeverityMedium,
			Remediation:     "Ensure documentation is accessible and provides sufficient information for authority review.",
			TestCases: []rules.TestCase{
				{ID: "TC-011-1B-P", Description: "Available to authorities", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": true, "extra": map[string]any{"techdoc_available_to_authorities": true}}, Expected: rules.VerdictPass},
			},
			Citations: []rules.Citation{cite(11, 1, "b", "provide national competent authorities")},
		},
		{
			ID:              "RULE-EU-AI-ACT-011-01C-001",
			RequirementID:   "REQ-EU-AI-ACT-011-01C-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Documentation must contain Annex IV minimum elements",
			Description:     "Verify that technical documentation contains at minimum the elements set out in Annex IV.",
			InputsNeeded:    []string{"is_high_risk", "extra.techdoc_contains_annex_iv_elements"},
			EvaluationLogic: "techdoc_annex_iv",
			Severity:        rules.SeverityHigh,
			Remediation:     "Review documentation against Annex IV checklist and add any missing elements.",
			TestCases: []rules.TestCase{
				{ID: "TC-011-1C-P", Description: "Annex IV covered", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"techdoc_contains_annex_iv_elements": true}}, Expected: rules.VerdictPass},
				{ID: "TC-011-1C-F", Description: "Annex IV missing", InputData: map[string]any{"is_high_risk": true, "extra": map[string]any{"techdoc_contains_annex_iv_elements": false}}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(11, 1, "c", "contain, at a minimum, the elements set out in Annex IV")},
		},
		{
			ID:              "RULE-EU-AI-ACT-011-01D-001",
			RequirementID:   "REQ-EU-AI-ACT-011-01D-001",
			Type:            rules.RuleTypeSemiAutomated,
			Title:           "Documentation must be clear and comprehensive",
			Description:     "Verify that documentation is written in a clear, comprehensive, and intelligible form.",
			InputsNeeded:    []string{"is_high_risk", "technical_documentation_exists", "extra.techdoc_clear_and_comprehensive"},
			EvaluationLogic: "techdoc_clarity",
			Severity:        rules.SeverityMedium,
			Remediation:     "Ensure documentation uses clear language, logical structure, and is understandable by technical experts.",
			TestCases: []rules.TestCase{
				{ID: "TC-011-1D-P", Description: "Clear docs", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": true, "extra": map[string]any{"techdoc_clear_and_comprehensive": true}}, Expected: rules.VerdictPass},
			},
			Citations: []rules.Citation{cite(11, 1, "d", "clear, comprehensive, and intelligible form")},
		},
		{
			ID:              "RULE-EU-AI-ACT-011-01-003",
			RequirementID:   "REQ-EU-AI-ACT-011-01-003",
			Type:            rules.RuleTypeAutomated,
			Title:           "Technical documentation must be accessible at a known location",
			Description:     "Verify that technical documentation is accessible (e.g., URL or internal repository).",
			InputsNeeded:    []string{"is_high_risk", "technical_documentation_exists", "technical_documentation_url"},
			EvaluationLogic: "techdoc_accessible",
			Severity:        rules.SeverityMedium,
			Remediation:     "Provide a URL or internal reference to the location where documentation can be accessed.",
			TestCases: []rules.TestCase{
				{ID: "TC-011-03-P", Description: "URL provided", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": true, "technical_documentation_url": "https://docs.example.com"}, Expected: rules.VerdictPass},
				{ID: "TC-011-03-F", Description: "No URL", InputData: map[string]any{"is_high_risk": true, "technical_documentation_exists": true, "technical_documentation_url": ""}, Expected: rules.VerdictFail},
			},
			Citations: []rules.Citation{cite(11, 1, "", "technical documentation shall be drawn up")},
		},
	}
}
