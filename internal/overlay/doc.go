// Package overlay reads and writes the per-directory .info documents that
// annotate the source library, plus the .root marker naming the reflected
// root.
//
// A document holds at most one block per namespace (series, season, movie,
// ova, soundtrack) and an optional ignore marker. Blocks decode into Map,
// which preserves key order so rewritten files stay diffable. Files are
// stored tab-indented and normalized to spaces before parsing. The package
// carries no business rules beyond the key whitelist.
package overlay
