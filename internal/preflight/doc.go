// Package preflight provides readiness checks for the directories and
// external services a mirror run depends on.
//
// These checks run in two contexts:
//   - "mirror reflect" calls CheckLibrary for each source root before the
//     traversal starts. A failed check stops the run before any link is made.
//   - "mirror check" uses RunAll to display the tool's own directories,
//     Kodi profiles, and service health.
//
// Service checks are gated by their config toggle; disabled features are skipped.
package preflight
