package rules

import (
	"fmt"
	"strings"
)

// CatalogError reports a malformed rule set rejected at load time.
// A catalog that fails validation is fatal for that rule set: no
// evaluation starts against it.
type CatalogError struct {
	Regulation string   // Regulation identifier, if known
	Errors     []string // One message per defect
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("catalog %q invalid: %s", e.Regulation, e.Errors[0])
	}
	return fmt.Sprintf("catalog %q invalid: %d defects:\n  %s",
		e.Regulation, len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// LoadError reports a failure to read a catalog file from disk.
type LoadError struct {
	FilePath string
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error [%s]: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("load error [%s]: %s", e.FilePath, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ParseError reports invalid YAML in a catalog file.
type ParseError struct {
	FilePath string
	Cause    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s]: %v", e.FilePath, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
