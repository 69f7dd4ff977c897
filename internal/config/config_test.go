package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediamirror/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "mediamirror", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Jellyfin.Enabled {
		t.Fatal("expected Jellyfin disabled by default")
	}
	if len(cfg.Library.MediaExtensions) != 1 || cfg.Library.MediaExtensions[0] != ".mkv" {
		t.Fatalf("unexpected media extensions: %v", cfg.Library.MediaExtensions)
	}
	if cfg.Kodi.Skin != "skin.aeon.nox.5" {
		t.Fatalf("unexpected kodi skin: %q", cfg.Kodi.Skin)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if filepath.Dir(cfg.LockPath()) != cfg.Paths.StateDir {
		t.Fatalf("lock path %q not under state dir", cfg.LockPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mediamirror.toml")

	type payload struct {
		Library struct {
			MediaExtensions []string `toml:"media_extensions"`
		} `toml:"library"`
		TMDB struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"tmdb"`
		Kodi struct {
			Profiles []string `toml:"profiles"`
		} `toml:"kodi"`
	}
	custom := payload{}
	custom.Library.MediaExtensions = []string{"MKV", ".mp4", ".mkv", " "}
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.BaseURL = "https://example.com/tmdb"
	custom.Kodi.Profiles = []string{filepath.Join(tempDir, "kodi")}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("expected TMDB key from file, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.com/tmdb" {
		t.Fatalf("expected TMDB base url override, got %q", cfg.TMDB.BaseURL)
	}
	want := []string{".mkv", ".mp4"}
	if strings.Join(cfg.Library.MediaExtensions, ",") != strings.Join(want, ",") {
		t.Fatalf("media extensions = %v, want %v", cfg.Library.MediaExtensions, want)
	}
	if !cfg.IsMediaExtension(".MP4") {
		t.Fatal("expected case-insensitive extension match")
	}
	if cfg.IsMediaExtension(".avi") {
		t.Fatal("did not expect .avi to be a media extension")
	}
	if len(cfg.Kodi.Profiles) != 1 || cfg.Kodi.Profiles[0] != filepath.Join(tempDir, "kodi") {
		t.Fatalf("unexpected kodi profiles: %v", cfg.Kodi.Profiles)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "mediamirror.toml")
	if err := os.WriteFile(configPath, []byte("[library]\nmovies_dir = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestConfigFileKeyWinsOverEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "mediamirror.toml")
	if err := os.WriteFile(configPath, []byte("[tmdb]\napi_key = \"file-tmdb\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TMDB_API_KEY", "env-tmdb")
	t.Setenv("JELLYFIN_API_KEY", "env-jellyfin")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "file-tmdb" {
		t.Errorf("expected TMDB key from file, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Jellyfin.APIKey != "env-jellyfin" {
		t.Errorf("expected Jellyfin key from env, got %q", cfg.Jellyfin.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if !strings.Contains(cfg.Paths.LogDir, "mediamirror") {
		t.Fatalf("expected log dir to contain mediamirror, got %q", cfg.Paths.LogDir)
	}
	if cfg.Logging.RetentionDays != 30 {
		t.Fatalf("unexpected retention: %d", cfg.Logging.RetentionDays)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Jellyfin.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when jellyfin enabled without url")
	}

	cfg = config.Default()
	cfg.Jellyfin.Enabled = true
	cfg.Jellyfin.URL = "http://jellyfin"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when jellyfin enabled without api key")
	}

	cfg = config.Default()
	cfg.Catalog.TimeoutSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative catalog timeout")
	}

	cfg = config.Default()
	cfg.Logging.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	cfg.Notifications.NtfyTopic = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative ntfy topic")
	}

	cfg = config.Default()
	if err := cfg.RequireTMDB(); err == nil {
		t.Fatal("expected RequireTMDB to fail without api key")
	}
	cfg.TMDB.APIKey = "key"
	if err := cfg.RequireTMDB(); err != nil {
		t.Fatalf("RequireTMDB: %v", err)
	}
}
