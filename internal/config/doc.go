// Package config loads and validates the TOML configuration for the loom
// backend. Load resolves the config path, applies defaults for missing
// values, expands ~ in path fields, and validates the result.
package config
