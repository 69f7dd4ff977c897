package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLibrary()
	c.normalizeCatalog()
	c.normalizeTMDB()
	c.normalizeJellyfin()
	if err := c.normalizeKodi(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLibrary() {
	exts := make([]string, 0, len(c.Library.MediaExtensions))
	seen := make(map[string]struct{}, len(c.Library.MediaExtensions))
	for _, ext := range c.Library.MediaExtensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = []string{defaultMediaExtension}
	}
	c.Library.MediaExtensions = exts
}

func (c *Config) normalizeCatalog() {
	c.Catalog.UserAgent = strings.TrimSpace(c.Catalog.UserAgent)
	if c.Catalog.UserAgent == "" {
		c.Catalog.UserAgent = defaultCatalogUserAgent
	}
	if c.Catalog.TimeoutSeconds == 0 {
		c.Catalog.TimeoutSeconds = defaultCatalogTimeout
	}
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeJellyfin() {
	if c.Jellyfin.APIKey == "" {
		if value, ok := os.LookupEnv("JELLYFIN_API_KEY"); ok {
			c.Jellyfin.APIKey = strings.TrimSpace(value)
		}
	}
	c.Jellyfin.URL = strings.TrimSpace(c.Jellyfin.URL)
	c.Jellyfin.APIKey = strings.TrimSpace(c.Jellyfin.APIKey)
}

func (c *Config) normalizeKodi() error {
	profiles := make([]string, 0, len(c.Kodi.Profiles))
	for i, profile := range c.Kodi.Profiles {
		if strings.TrimSpace(profile) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(profile))
		if err != nil {
			return fmt.Errorf("kodi.profiles[%d]: %w", i, err)
		}
		profiles = append(profiles, expanded)
	}
	c.Kodi.Profiles = profiles
	c.Kodi.Skin = strings.TrimSpace(c.Kodi.Skin)
	if c.Kodi.Skin == "" {
		c.Kodi.Skin = defaultKodiSkin
	}
	c.Kodi.Background = strings.TrimSpace(c.Kodi.Background)
	if c.Kodi.Background != "" {
		expanded, err := expandPath(c.Kodi.Background)
		if err != nil {
			return fmt.Errorf("kodi.background: %w", err)
		}
		c.Kodi.Background = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}
