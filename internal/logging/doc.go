// Package logging assembles structured slog loggers and formatting helpers used
// across mediamirror commands.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so library code can tag log lines with the
// run identifier and the directory being processed. An oversized log file is
// archived before a command appends to it, and old archives are pruned.
package logging
