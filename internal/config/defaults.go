package config

const (
	defaultConfigPath       = "~/.config/mediamirror/config.toml"
	projectConfigName       = "mediamirror.toml"
	defaultLogDir           = "~/.local/share/mediamirror/logs"
	defaultStateDir         = "~/.local/state/mediamirror"
	defaultLogRetentionDays = 30
	defaultMediaExtension   = ".mkv"
	defaultCatalogUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	defaultCatalogTimeout   = 5
	defaultTMDBLanguage     = "en-US"
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultKodiSkin         = "skin.aeon.nox.5"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultJellyfinEnabled  = false
	defaultNtfyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Library: Library{
			MediaExtensions: []string{defaultMediaExtension},
		},
		Catalog: Catalog{
			UserAgent:      defaultCatalogUserAgent,
			TimeoutSeconds: defaultCatalogTimeout,
		},
		TMDB: TMDB{
			Language: defaultTMDBLanguage,
			BaseURL:  defaultTMDBBaseURL,
		},
		Jellyfin: Jellyfin{
			Enabled: defaultJellyfinEnabled,
		},
		Kodi: Kodi{
			Skin: defaultKodiSkin,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
	}
}
