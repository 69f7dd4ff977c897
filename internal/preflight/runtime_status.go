package preflight

import (
	"context"
	"strings"

	"mediamirror/internal/config"
)

// CheckJellyfinFromConfig evaluates Jellyfin status from config and connectivity.
func CheckJellyfinFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "Jellyfin"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Jellyfin.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if strings.TrimSpace(cfg.Jellyfin.URL) == "" {
		return Result{Name: name, Detail: "Missing URL"}
	}
	if strings.TrimSpace(cfg.Jellyfin.APIKey) == "" {
		return Result{Name: name, Detail: "Missing API key"}
	}
	return CheckJellyfin(ctx, cfg.Jellyfin.URL, cfg.Jellyfin.APIKey)
}

// CheckTMDBFromConfig evaluates TMDB status from config and connectivity.
func CheckTMDBFromConfig(ctx context.Context, cfg *config.Config) Result {
	const name = "TMDB"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.TMDB.APIKey) == "" {
		return Result{Name: name, Passed: true, Detail: "Not configured (mirror fetch unavailable)"}
	}
	return CheckTMDB(ctx, cfg.TMDB, nil)
}
