package catalog

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
)

// Source is an external catalog that tags titles with identifiers.
type Source interface {
	Key() string
	Name() string
	SearchURL(terms string) string
	OpenURL(id string) string
	ParseID(rawURL string) (string, bool)
	// BestMatch returns the most likely id for terms, or "" when nothing
	// matched.
	BestMatch(ctx context.Context, terms string) (string, error)
	CleanURL(rawURL string) string
}

// ArtSource is an external site searched for artwork by hand.
type ArtSource interface {
	Name() string
	SearchURL(terms string) string
	ResourceKinds() []string
	GatherOrder() int
	CleanURL(rawURL string) string
}

// webSource is a catalog described by URL templates and an id pattern.
type webSource struct {
	key       string
	name      string
	search    string
	open      string
	idPattern *regexp.Regexp
	scrape    bool
	fetcher   *Fetcher
}

func (s *webSource) Key() string  { return s.key }
func (s *webSource) Name() string { return s.name }

func (s *webSource) SearchURL(terms string) string {
	return fmt.Sprintf(s.search, url.PathEscape(terms))
}

func (s *webSource) OpenURL(id string) string {
	return fmt.Sprintf(s.open, url.PathEscape(id))
}

func (s *webSource) ParseID(rawURL string) (string, bool) {
	m := s.idPattern.FindStringSubmatch(rawURL)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

func (s *webSource) CleanURL(rawURL string) string { return rawURL }

// BestMatch loads the search page and returns the first linked id. Sources
// whose search pages cannot be scraped never match.
func (s *webSource) BestMatch(ctx context.Context, terms string) (string, error) {
	if !s.scrape || s.fetcher == nil || terms == "" {
		return "", nil
	}
	searchURL := s.SearchURL(terms)
	page, err := s.fetcher.Get(ctx, searchURL)
	if err != nil {
		return "", err
	}
	return firstLinkedID(page, searchURL, s.ParseID)
}

// artSite is a site searched only for artwork.
type artSite struct {
	name   string
	search string
	kinds  []string
	order  int
	clean  func(string) string
}

func (a *artSite) Name() string            { return a.name }
func (a *artSite) ResourceKinds() []string { return a.kinds }
func (a *artSite) GatherOrder() int        { return a.order }
func (a *artSite) SearchURL(terms string) string {
	return fmt.Sprintf(a.search, url.PathEscape(terms))
}

func (a *artSite) CleanURL(rawURL string) string {
	if a.clean == nil {
		return rawURL
	}
	return a.clean(rawURL)
}

// tvdbSource is both a catalog and an art site.
type tvdbSource struct {
	*webSource
}

func (tvdbSource) ResourceKinds() []string { return []string{"background", "banner", "poster"} }
func (tvdbSource) GatherOrder() int        { return 0 }
