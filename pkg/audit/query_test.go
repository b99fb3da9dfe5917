package audit

import (
	"testing"
	"time"
)

func TestQueryValidate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		query   Query
		wantErr bool
	}{
		{"empty", Query{}, false},
		{"valid stage", Query{Stage: StageEvaluate}, false},
		{"unknown stage", Query{Stage: "bogus"}, true},
		{"negative limit", Query{Limit: -1}, true},
		{"negative offset", Query{Offset: -5}, true},
		{"valid range", Query{From: now.Add(-time.Hour), To: now}, false},
		{"inverted range", Query{From: now, To: now.Add(-time.Hour)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQueryMatches(t *testing.T) {
	e := testEntry()

	tests := []struct {
		name  string
		query Query
		want  bool
	}{
		{"empty matches all", Query{}, true},
		{"stage match", Query{Stage: StageEvaluate}, true},
		{"stage mismatch", Query{Stage: StageIngest}, false},
		{"action match", Query{Action: "rule_evaluated"}, true},
		{"action mismatch", Query{Action: "other"}, false},
		{"actor match", Query{Actor: "engine"}, true},
		{"verdict match", Query{Verdict: "pass"}, true},
		{"verdict mismatch", Query{Verdict: "fail"}, false},
		{"from before", Query{From: e.Timestamp.Add(-time.Minute)}, true},
		{"from exact", Query{From: e.Timestamp}, true},
		{"from after", Query{From: e.Timestamp.Add(time.Minute)}, false},
		{"to after", Query{To: e.Timestamp.Add(time.Minute)}, true},
		{"to exact", Query{To: e.Timestamp}, true},
		{"to before", Query{To: e.Timestamp.Add(-time.Minute)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Matches(e); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
