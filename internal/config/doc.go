// Package config loads, normalizes, and validates vidcat configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// VIDCAT_CSV_URL and GITHUB_PERSONAL_ACCESS_TOKEN. The Config type centralizes
// every knob the portal daemon and CLI need, so the catalog source, storage
// location, and issue tracker credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
