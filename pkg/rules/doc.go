// Package rules defines the compliance rule model and the catalog
// lifecycle: loading rule sets from YAML, validating them before any
// evaluation starts, resolving each rule's evaluation logic to a named
// function or a sandboxed expression, and watching catalog directories
// for changes.
//
// A Catalog is an explicitly constructed, injected object. There is no
// module-level rule state: callers build catalogs (from files or from a
// built-in definition such as rules/euaiact), hand them to the engine,
// and swap them atomically on reload.
package rules
