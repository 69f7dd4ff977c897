package catalog

import (
	"regexp"
	"slices"

	"mediamirror/internal/catalog/tmdb"
	"mediamirror/internal/library"
)

// MoviePosterDB names the art site that is also searched by IMDb id.
const MoviePosterDB = "MoviePosterDB"

var miniTokyoImageQuery = regexp.MustCompile(`(?i)^([^:/]+://static\.minitokyo\.[^?]+/downloads/[^?]+)\?.*$`)

// Registry holds one Source per catalog and the art sites, with shared
// dependencies injected by the caller.
type Registry struct {
	sources   map[string]Source
	tmdbShow  Source
	tmdbMovie Source
	art       []ArtSource
}

// NewRegistry wires every catalog to fetcher. api may be nil when no TMDB
// key is configured.
func NewRegistry(fetcher *Fetcher, api tmdb.API) *Registry {
	tvdb := tvdbSource{&webSource{
		key:       library.KeyTVDB,
		name:      "TVDB",
		search:    "http://thetvdb.com/?string=%s&tab=listseries&function=Search",
		open:      "http://thetvdb.com/?tab=series&id=%s",
		idPattern: regexp.MustCompile(`(?i)://[^/]*thetvdb\.com/.*[?&]id=(\d+)`),
		scrape:    true,
		fetcher:   fetcher,
	}}
	sources := []Source{
		tvdb,
		&webSource{
			key:       library.KeyAniDB,
			name:      "AniDB",
			search:    "http://anidb.net/perl-bin/animedb.pl?show=animelist&adb.search=%s",
			open:      "http://anidb.net/perl-bin/animedb.pl?show=anime&aid=%s",
			idPattern: regexp.MustCompile(`(?i)://[^/]*anidb\.net/.*animedb.*[?&]aid=(\d+)`),
			scrape:    true,
			fetcher:   fetcher,
		},
		// MyAnimeList blocks automated search requests.
		&webSource{
			key:       library.KeyMAL,
			name:      "MyAnimeList",
			search:    "http://myanimelist.net/anime.php?q=%s",
			open:      "http://myanimelist.net/anime/%s",
			idPattern: regexp.MustCompile(`(?i)://[^/]*myanimelist\.net/anime/(\d+)`),
		},
		&webSource{
			key:       library.KeyHummingBird,
			name:      "HummingBird",
			search:    "https://hummingbird.me/search?query=%s",
			open:      "https://hummingbird.me/anime/%s",
			idPattern: regexp.MustCompile(`(?i)://[^/]*hummingbird\.me/anime/([^/]+)`),
		},
		&webSource{
			key:       library.KeyIMDB,
			name:      "IMDb",
			search:    "http://www.imdb.com/find?s=tt&q=%s",
			open:      "http://www.imdb.com/title/%s",
			idPattern: regexp.MustCompile(`(?i)://[^/]*imdb\.com/title/(tt\d+)`),
			scrape:    true,
			fetcher:   fetcher,
		},
	}
	r := &Registry{
		sources:   make(map[string]Source, len(sources)),
		tmdbShow:  newTMDBSource(TMDBShow, fetcher, api),
		tmdbMovie: newTMDBSource(TMDBMovie, fetcher, api),
	}
	for _, s := range sources {
		r.sources[s.Key()] = s
	}
	r.art = []ArtSource{
		tvdb,
		&artSite{name: MoviePosterDB, search: "http://www.movieposterdb.com/search/?query=%s", kinds: []string{library.ArtPoster}, order: 1},
		&artSite{name: "ZeroChan", search: "http://www.zerochan.net/search?q=%s", kinds: []string{library.ArtBackground, library.ArtPoster}, order: 2},
		&artSite{
			name:   "MiniTokyo",
			search: "http://www.minitokyo.net/search?q=%s",
			kinds:  []string{library.ArtBackground, library.ArtPoster},
			order:  3,
			clean:  func(u string) string { return miniTokyoImageQuery.ReplaceAllString(u, "$1") },
		},
	}
	return r
}

// Source returns the catalog for key as seen from a context of kind. TMDB
// resolves to shows for series and seasons and to movies otherwise.
func (r *Registry) Source(key string, kind library.Kind) (Source, bool) {
	if key == library.KeyTMDB {
		if kind == library.KindSeries || kind == library.KindSeason {
			return r.tmdbShow, true
		}
		return r.tmdbMovie, true
	}
	s, ok := r.sources[key]
	return s, ok
}

// ForContext lists the sources a context should be identified in.
func (r *Registry) ForContext(c *library.Context) []Source {
	var out []Source
	for _, key := range c.IDKeys() {
		if s, ok := r.Source(key, c.Kind()); ok {
			out = append(out, s)
		}
	}
	return out
}

// ArtSources returns the art sites that carry any of the needed resources,
// in gathering order.
func (r *Registry) ArtSources(needed []string) []ArtSource {
	var out []ArtSource
	for _, site := range r.art {
		for _, kind := range site.ResourceKinds() {
			if slices.Contains(needed, kind) {
				out = append(out, site)
				break
			}
		}
	}
	slices.SortStableFunc(out, func(a, b ArtSource) int { return a.GatherOrder() - b.GatherOrder() })
	return out
}

// CleanURL applies every art site's cleanup to a pasted URL.
func (r *Registry) CleanURL(rawURL string) string {
	for _, site := range r.art {
		rawURL = site.CleanURL(rawURL)
	}
	return rawURL
}

// ParseID reads the key catalog's id out of a pasted URL.
func (r *Registry) ParseID(rawURL string, kind library.Kind, key string) (string, bool) {
	s, ok := r.Source(key, kind)
	if !ok {
		return "", false
	}
	return s.ParseID(r.CleanURL(rawURL))
}
