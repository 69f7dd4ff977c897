package preflight

import (
	"context"

	"mediamirror/internal/config"
	"mediamirror/internal/library"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunAll executes all applicable preflight checks for the given config.
// Service checks only contact a service when it is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Tool directories (always checked)
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	for _, profile := range cfg.Kodi.Profiles {
		results = append(results, CheckKodiProfile(profile))
	}

	// Services report "Disabled" or "Not configured" as passing
	results = append(results, CheckTMDBFromConfig(ctx, cfg))
	results = append(results, CheckJellyfinFromConfig(ctx, cfg))

	return results
}

// CheckLibrary verifies that a traversal base is readable and that the
// reflected root named by its root marker exists and is writable.
func CheckLibrary(base string) []Result {
	results := []Result{CheckDirectoryReadable("Source "+base, base)}
	if !results[0].Passed {
		return results
	}
	reflected, err := library.NewBase(base, library.DefaultOptions()).ReflectedRoot()
	if err != nil {
		return append(results, Result{Name: "Reflected root", Detail: err.Error()})
	}
	return append(results, CheckDirectoryAccess("Reflected root", reflected))
}
