package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := SystemProfile{
		SystemName:      "triage-assist",
		ProviderName:    "Acme Health",
		IntendedPurpose: "clinical triage support",
	}

	tests := []struct {
		name    string
		mutate  func(*SystemProfile)
		wantErr string
	}{
		{"complete", func(p *SystemProfile) {}, ""},
		{"missing system name", func(p *SystemProfile) { p.SystemName = "" }, "system_name"},
		{"missing provider name", func(p *SystemProfile) { p.ProviderName = "" }, "provider_name"},
		{"missing intended purpose", func(p *SystemProfile) { p.IntendedPurpose = "" }, "intended_purpose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshotUsesWireNames(t *testing.T) {
	p := &SystemProfile{
		SystemName:      "triage-assist",
		ProviderName:    "Acme Health",
		IntendedPurpose: "clinical triage support",
		IsHighRisk:      true,
		BiasExaminationReport: &BiasExaminationReport{
			CoversHealthSafety: true,
		},
	}

	snapshot, err := p.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if snapshot["system_name"] != "triage-assist" {
		t.Errorf("system_name = %v", snapshot["system_name"])
	}
	report, ok := snapshot["bias_examination_report"].(map[string]any)
	if !ok {
		t.Fatalf("bias_examination_report = %T", snapshot["bias_examination_report"])
	}
	if report["covers_health_safety"] != true {
		t.Errorf("covers_health_safety = %v", report["covers_health_safety"])
	}
}

func TestSnapshotKeepsDeclaredEmptyLists(t *testing.T) {
	p := &SystemProfile{
		SystemName:          "triage-assist",
		ProviderName:        "Acme Health",
		IntendedPurpose:     "clinical triage support",
		LoggingCapabilities: []string{},
	}

	snapshot, err := p.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	// A declared empty list stays a list. A list never set at all
	// becomes null and counts as a missing input during resolution.
	if _, ok := snapshot["logging_capabilities"].([]any); !ok {
		t.Errorf("logging_capabilities = %T, want list", snapshot["logging_capabilities"])
	}
	if snapshot["dataset_names"] != nil {
		t.Errorf("dataset_names = %v, want null", snapshot["dataset_names"])
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "profile.yaml")
	doc := `
system_name: triage-assist
provider_name: Acme Health
intended_purpose: clinical triage support
is_high_risk: true
logging_capabilities:
  - decision_log
extra:
  iso_42001_certified: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if p.SystemName != "triage-assist" || !p.IsHighRisk {
		t.Errorf("unexpected profile: %+v", p)
	}
	if len(p.LoggingCapabilities) != 1 || p.LoggingCapabilities[0] != "decision_log" {
		t.Errorf("LoggingCapabilities = %v", p.LoggingCapabilities)
	}
	if p.Extra["iso_42001_certified"] != true {
		t.Errorf("Extra = %v", p.Extra)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("system_name: only-a-name\n"), 0o644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.yaml")},
		{"incomplete profile", invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
