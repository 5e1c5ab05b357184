// Package config loads, normalizes, and validates Hardbound configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: store file locations, Discord credentials, download
// client connection details, indexer and metadata provider endpoints, and the
// remote organizer host.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
