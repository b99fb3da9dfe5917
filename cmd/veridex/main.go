// Veridex Callisto is a compliance rule evaluation engine for AI
// systems with a hash-chained audit log.
//
// It evaluates declared AI system profiles against regulatory rule
// catalogs (the EU AI Act catalog ships built in), producing scored
// compliance reports with remediation gaps, and records every
// evaluation in a tamper-evident audit chain.
//
// Usage:
//
//	# Evaluate a profile against the built-in catalog
//	veridex evaluate --profile system.yaml
//
//	# Export the report as CSV
//	veridex evaluate --profile system.yaml --format csv --output report.csv
//
//	# List and lint the rule catalog
//	veridex rules list
//	veridex rules lint
//
//	# Inspect and verify the audit chain
//	veridex audit list --stage evaluate
//	veridex audit verify
//
//	# Show version information
//	veridex version
package main

func main() {
	Execute()
}
