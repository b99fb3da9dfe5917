package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BiasExaminationReport documents a provider's bias examination of the
// datasets used to train an AI system.
type BiasExaminationReport struct {
	CoversHealthSafety             bool     `yaml:"covers_health_safety" json:"covers_health_safety"`
	CoversFundamentalRights        bool     `yaml:"covers_fundamental_rights" json:"covers_fundamental_rights"`
	CoversProhibitedDiscrimination bool     `yaml:"covers_prohibited_discrimination" json:"covers_prohibited_discrimination"`
	DatasetsExamined               []string `yaml:"datasets_examined,omitempty" json:"datasets_examined,omitempty"`
	ExaminationDate                string   `yaml:"examination_date,omitempty" json:"examination_date,omitempty"`
	Methodology                    string   `yaml:"methodology,omitempty" json:"methodology,omitempty"`
	FindingsSummary                string   `yaml:"findings_summary,omitempty" json:"findings_summary,omitempty"`
}

// SystemProfile describes the governance posture of an AI system under
// evaluation: risk management, data governance, documentation, logging,
// human oversight, and accuracy/robustness/security measures.
//
// A profile is owned by the caller and treated as immutable for the
// duration of one evaluation run.
type SystemProfile struct {
	SystemName           string `yaml:"system_name" json:"system_name"`
	ProviderName         string `yaml:"provider_name" json:"provider_name"`
	ProviderJurisdiction string `yaml:"provider_jurisdiction,omitempty" json:"provider_jurisdiction,omitempty"`
	SystemVersion        string `yaml:"system_version,omitempty" json:"system_version,omitempty"`
	IntendedPurpose      string `yaml:"intended_purpose" json:"intended_purpose"`
	IsHighRisk           bool   `yaml:"is_high_risk" json:"is_high_risk"`
	HighRiskCategory     string `yaml:"high_risk_category,omitempty" json:"high_risk_category,omitempty"`
	AnnexIIISection      string `yaml:"annex_iii_section,omitempty" json:"annex_iii_section,omitempty"`

	// Data and training
	UsesTrainingData                  bool                   `yaml:"uses_training_data" json:"uses_training_data"`
	DatasetNames                      []string               `yaml:"dataset_names" json:"dataset_names"`
	BiasExaminationReport             *BiasExaminationReport `yaml:"bias_examination_report,omitempty" json:"bias_examination_report,omitempty"`
	DataGovernancePracticesDocumented bool                   `yaml:"data_governance_practices_documented" json:"data_governance_practices_documented"`
	TrainingDataRelevanceDocumented   bool                   `yaml:"training_data_relevance_documented" json:"training_data_relevance_documented"`
	DataCollectionProcessDocumented   bool                   `yaml:"data_collection_process_documented" json:"data_collection_process_documented"`

	// Technical documentation
	TechnicalDocumentationExists bool   `yaml:"technical_documentation_exists" json:"technical_documentation_exists"`
	TechnicalDocumentationURL    string `yaml:"technical_documentation_url,omitempty" json:"technical_documentation_url,omitempty"`

	// Record keeping
	AutomaticLoggingEnabled bool     `yaml:"automatic_logging_enabled" json:"automatic_logging_enabled"`
	LoggingCapabilities     []string `yaml:"logging_capabilities" json:"logging_capabilities"`

	// Transparency
	InstructionsForUseProvided bool `yaml:"instructions_for_use_provided" json:"instructions_for_use_provided"`
	IntendedPurposeDocumented  bool `yaml:"intended_purpose_documented" json:"intended_purpose_documented"`
	LimitationsDocumented      bool `yaml:"limitations_documented" json:"limitations_documented"`

	// Human oversight
	HumanOversightMeasures   []string `yaml:"human_oversight_measures" json:"human_oversight_measures"`
	HumanCanOverride         bool     `yaml:"human_can_override" json:"human_can_override"`
	HumanCanInterrupt        bool     `yaml:"human_can_interrupt" json:"human_can_interrupt"`
	AutomationBiasSafeguards []string `yaml:"automation_bias_safeguards" json:"automation_bias_safeguards"`

	// Accuracy, robustness, cybersecurity
	AccuracyMetricsDocumented       bool     `yaml:"accuracy_metrics_documented" json:"accuracy_metrics_documented"`
	AccuracyLevelsDeclared          string   `yaml:"accuracy_levels_declared,omitempty" json:"accuracy_levels_declared,omitempty"`
	DisaggregatedPerformanceMetrics bool     `yaml:"disaggregated_performance_metrics" json:"disaggregated_performance_metrics"`
	RobustnessMeasures              []string `yaml:"robustness_measures" json:"robustness_measures"`
	CybersecurityMeasures           []string `yaml:"cybersecurity_measures" json:"cybersecurity_measures"`
	AdversarialTestingPerformed     bool     `yaml:"adversarial_testing_performed" json:"adversarial_testing_performed"`

	// Risk management
	RiskManagementSystemEstablished bool     `yaml:"risk_management_system_established" json:"risk_management_system_established"`
	RiskManagementContinuous        bool     `yaml:"risk_management_continuous" json:"risk_management_continuous"`
	ResidualRisksDocumented         bool     `yaml:"residual_risks_documented" json:"residual_risks_documented"`
	RiskMitigationMeasures          []string `yaml:"risk_mitigation_measures" json:"risk_mitigation_measures"`
	TestingProceduresDocumented     bool     `yaml:"testing_procedures_documented" json:"testing_procedures_documented"`

	// Extra holds additional self-declared evidence fields that rules
	// may reference under the "extra." prefix.
	Extra map[string]any `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// Validate checks the fields a profile must carry before evaluation.
func (p *SystemProfile) Validate() error {
	if p.SystemName == "" {
		return fmt.Errorf("profile missing system_name")
	}
	if p.ProviderName == "" {
		return fmt.Errorf("profile missing provider_name")
	}
	if p.IntendedPurpose == "" {
		return fmt.Errorf("profile missing intended_purpose")
	}
	return nil
}

// Snapshot produces the canonical map view of the profile used for path
// resolution and content hashing. The round trip through encoding/json
// gives every field its wire name and collapses typed values to the
// JSON scalar/collection forms that rule evaluators operate on.
func (p *SystemProfile) Snapshot() (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	var snapshot map[string]any
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to build profile snapshot: %w", err)
	}
	return snapshot, nil
}

// LoadFile reads and validates a profile from a YAML (or JSON, which is
// valid YAML) file.
func LoadFile(path string) (*SystemProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %q: %w", path, err)
	}
	var p SystemProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %q: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %q: %w", path, err)
	}
	return &p, nil
}
