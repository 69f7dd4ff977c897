// Package config loads, normalizes, and validates mediamirror configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and JELLYFIN_API_KEY. Library layout itself is never configured
// here: it lives in the per-directory overlay files of the annotated tree.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
