// Package config loads, normalizes, and validates talentflow configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TALENTFLOW_REMOTE_URL and TALENTFLOW_API_TOKEN (optionally sourced from a
// .env file). The Config type centralizes every knob the board engine, CLI, and
// reference board server need.
//
// Always obtain settings through this package so downstream code receives
// sanitized URLs, canonical log formats, positive timeouts, and clear
// validation errors.
package config
