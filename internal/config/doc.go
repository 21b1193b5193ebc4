// Package config loads, normalizes, and validates kslingo configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// KSLINGO_LEARN and KSLINGO_TTS_URL. The Config type centralizes every knob
// the CLI and workflow need: output and work directories, the language pair,
// the speech endpoint, audio pacing and the clip cache.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
