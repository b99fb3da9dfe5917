// Package config defines the YAML configuration surface for Veridex
// Callisto and its loading pipeline: read file, apply defaults, apply
// environment overrides, validate.
//
// Every section has working defaults; an empty file is a valid
// configuration that evaluates the built-in catalog against profiles
// with a SQLite audit chain under ./data.
package config
