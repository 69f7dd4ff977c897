// Package reflection projects annotated source directories into the derived
// tree: one symlink per source file under canonical names, and a per
// directory sweep that drops anything a pass no longer produces.
package reflection
