// Package config loads, normalizes, and validates examtally configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the EXAMTALLY_BANK environment
// fallback. The Config type centralizes every knob the CLI and workflow
// need: where the question bank lives, how bank columns and type labels are
// named, which markers identify transcript lines, how strict fuzzy matching
// is, and how results are written.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical policy names, and clear validation errors.
package config
