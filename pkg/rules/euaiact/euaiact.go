// Package euaiact ships the built-in rule catalog for the EU AI Act
// high-risk requirements, Articles 9 through 15, together with the
// reviewed evaluator functions the rules dispatch to.
//
// Every rule here resolves to a named evaluator registered under the
// rule's own id, so the expression fallback is never taken for this
// catalog. The rule definitions carry the same citations and shipped
// test cases as the regulation working notes they were derived from.
package euaiact

import (
	"fmt"
	"strings"

	"veridex-hq/callisto/pkg/rules"
)

const (
	// Regulation is the catalog's regulation identifier.
	Regulation = "eu-ai-act-v1"

	// DocumentVersion is the Official Journal document version the
	// citations refer to.
	DocumentVersion = "2024-1689-oj"
)

// NewRegistry returns a registry holding every evaluator in this
// catalog, keyed by rule id.
func NewRegistry() *rules.Registry {
	r := rules.NewRegistry()
	for _, set := range []map[string]rules.EvaluatorFunc{
		art09Evaluators(),
		art10Evaluators(),
		art11Evaluators(),
		art12Evaluators(),
		art13Evaluators(),
		art14Evaluators(),
		art15Evaluators(),
	} {
		for name, fn := range set {
			r.MustRegister(name, fn)
		}
	}
	return r
}

// NewCatalog builds the validated built-in catalog.
func NewCatalog() (*rules.Catalog, error) {
	var ruleSet []*rules.Rule
	ruleSet = append(ruleSet, art09Rules()...)
	ruleSet = append(ruleSet, art10Rules()...)
	ruleSet = append(ruleSet, art11Rules()...)
	ruleSet = append(ruleSet, art12Rules()...)
	ruleSet = append(ruleSet, art13Rules()...)
	ruleSet = append(ruleSet, art14Rules()...)
	ruleSet = append(ruleSet, art15Rules()...)

	return rules.NewCatalog(Regulation, DocumentVersion, ruleSet, rules.CatalogOptions{
		Registry: NewRegistry(),
	})
}

// RulesForArticle returns the rule ids covering the given article
// number, in catalog order. Articles outside 9..15 yield nil.
func RulesForArticle(article int) []string {
	var set []*rules.Rule
	switch article {
	case 9:
		set = art09Rules()
	case 10:
		set = art10Rules()
	case 11:
		set = art11Rules()
	case 12:
		set = art12Rules()
	case 13:
		set = art13Rules()
	case 14:
		set = art14Rules()
	case 15:
		set = art15Rules()
	default:
		return nil
	}
	ids := make([]string, len(set))
	for i, r := range set {
		ids[i] = r.ID
	}
	return ids
}

// cite builds a citation for one paragraph (and optional subsection) of
// an article.
func cite(article, para int, sub, quote string) rules.Citation {
	clauseID := fmt.Sprintf("%s/art%02d/para%d", Regulation, article, para)
	if sub != "" {
		clauseID += "/sub-" + sub
	}
	return rules.Citation{
		ClauseID:      clauseID,
		ArticleRef:    fmt.Sprintf("Article %d", article),
		ParagraphRef:  fmt.Sprintf("%d", para),
		SubsectionRef: sub,
		ExactQuote:    quote,
	}
}

// Snapshot accessors. Evaluators read the canonical profile snapshot,
// where absent fields are simply missing keys and lists arrive as
// []any after the JSON round trip.

func getBool(snapshot map[string]any, key string) bool {
	v, ok := snapshot[key].(bool)
	return ok && v
}

func getString(snapshot map[string]any, key string) string {
	v, _ := snapshot[key].(string)
	return v
}

func getList(snapshot map[string]any, key string) []string {
	raw, ok := snapshot[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getMap(snapshot map[string]any, key string) map[string]any {
	v, _ := snapshot[key].(map[string]any)
	return v
}

// extraBool reads a self-declared evidence flag from the extra block.
// def is the value assumed when the flag is absent.
func extraBool(snapshot map[string]any, key string, def bool) bool {
	extra := getMap(snapshot, "extra")
	if extra == nil {
		return def
	}
	v, ok := extra[key].(bool)
	if !ok {
		return def
	}
	return v
}

// anyContains reports whether any list item contains one of the given
// substrings, case-insensitively.
func anyContains(items []string, substrings ...string) bool {
	for _, item := range items {
		lower := strings.ToLower(item)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				return true
			}
		}
	}
	return false
}

// highRisk gates rules that apply only to high-risk systems.
func highRisk(snapshot map[string]any) bool {
	return getBool(snapshot, "is_high_risk")
}

// passFail maps a predicate to a pass or fail verdict with the given
// failure detail.
func passFail(ok bool, failDetail string) (rules.Verdict, string, error) {
	if ok {
		return rules.VerdictPass, "", nil
	}
	return rules.VerdictFail, failDetail, nil
}

const notHighRiskDetail = "system is not classified as high-risk"
