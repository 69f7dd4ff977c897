// Package services defines shared utilities consumed by the library commands
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and the directory being
//     processed for logging.
//   - Structured error markers plus the Wrap helper that separate fatal
//     configuration problems from recoverable collaborator failures.
//
// Integrations with outside services (Jellyfin) live in subpackages.
package services
