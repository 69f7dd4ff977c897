// Package main hosts the mirror CLI entrypoint and command graph.
//
// Library commands take one or more annotated source roots as positional
// arguments and walk their .info overlays. reflect keeps the derived tree in
// sync; the remaining commands inspect the tree or fill overlays from
// external catalogs. Configuration resolution, logging setup, and the run
// lock live here so the internal packages stay free of process concerns.
package main
