// Package config loads, normalizes, and validates autonameow configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files (or YAML files by extension), and resolves
// named templates referenced by rules. The Config type centralizes every knob
// the CLI and pipeline need, including the raw rule list which the rules
// package turns into typed rules.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
