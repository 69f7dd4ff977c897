// Package mirror drives whole-library passes over one or more annotated
// source roots.
//
// Each pass walks the roots with library.Walk and handles every context in
// traversal order:
//   - Reflect projects links, writes descriptors, and sweeps stale derived
//     entries, then asks Jellyfin to rescan when anything changed.
//   - Identify fills missing catalog ids from background best-match lookups.
//   - Fetch stores TMDB metadata in www_metadata.
//   - Grab, VerifyArt, and UpdateKodi run the artwork and media-center steps.
//   - ArtNeeds lists the art still missing below each top-level directory.
//
// Set is the one single-directory operation: it records a value typed or
// pasted by hand into one overlay.
//
// Fatal errors (configuration and consistency problems) stop the pass;
// collaborator failures are logged as warnings and the pass continues.
package mirror
