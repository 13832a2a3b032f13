// Package config loads, normalizes, and validates clean-folder configuration.
//
// It supplies repository defaults (including the built-in category table),
// expands user paths (including tilde shortcuts), reads TOML files, and honours
// the CLEAN_FOLDER_STATE_DIR environment override. The Config type centralizes
// every knob the CLI and the cleanup stages need.
//
// Always obtain settings through this package so downstream code receives
// canonical extensions, expanded paths, and clear validation errors.
package config
