// Package textutil provides text processing utilities for display names,
// catalog search terms, title similarity, and filename sanitization.
//
// The primary use cases are:
//   - Splitting ordering prefixes from directory display names
//   - Folding names into plain search terms for catalog lookups
//   - Scoring how closely a catalog result title matches a search term
//   - Sanitizing filenames and path segments for safe filesystem use
package textutil
