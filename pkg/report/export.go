package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *ComplianceReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// csvHeader is the column layout of the per-rule CSV export. One row
// per rule result; summary fields are repeated on every row so the file
// stays self-describing when rows are filtered in a spreadsheet.
var csvHeader = []string{
	"report_id",
	"generated_at",
	"system_name",
	"regulation",
	"rule_id",
	"requirement_id",
	"title",
	"verdict",
	"severity",
	"article_ref",
	"details",
	"remediation",
	"compliance_score",
	"overall_verdict",
}

// WriteCSV writes one row per rule result.
func WriteCSV(w io.Writer, r *ComplianceReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	generatedAt := r.GeneratedAt.UTC().Format(time.RFC3339)
	score := strconv.FormatFloat(r.Summary.ComplianceScore, 'f', 1, 64)

	for _, res := range r.Results {
		row := []string{
			r.ID,
			generatedAt,
			r.SystemName,
			r.Regulation,
			res.RuleID,
			res.RequirementID,
			res.Title,
			string(res.Verdict),
			string(res.Severity),
			res.ArticleRef,
			res.Details,
			res.Remediation,
			score,
			string(r.Summary.OverallVerdict),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
