package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"mediamirror/internal/catalog/tmdb"
	"mediamirror/internal/textutil"
)

// TMDB media types.
const (
	TMDBShow  = "tv"
	TMDBMovie = "movie"
)

// tmdbSource identifies shows or movies on TMDB. With an API client the best
// match comes from the search API ranked by title similarity; without one the
// public search page is scraped.
type tmdbSource struct {
	*webSource
	media string
	api   tmdb.API
}

func newTMDBSource(media string, fetcher *Fetcher, api tmdb.API) *tmdbSource {
	return &tmdbSource{
		webSource: &webSource{
			key:       "tmdb",
			name:      "TMDB",
			search:    "https://www.themoviedb.org/search/" + media + "?query=%s",
			open:      "https://www.themoviedb.org/" + media + "/%s",
			idPattern: regexp.MustCompile(`(?i)://[^/]*themoviedb\.org/` + media + `/(\d+)`),
			scrape:    true,
			fetcher:   fetcher,
		},
		media: media,
		api:   api,
	}
}

func (s *tmdbSource) BestMatch(ctx context.Context, terms string) (string, error) {
	if s.api == nil {
		return s.webSource.BestMatch(ctx, terms)
	}
	if terms == "" {
		return "", nil
	}
	var (
		resp *tmdb.Response
		err  error
	)
	if s.media == TMDBMovie {
		resp, err = s.api.SearchMovie(ctx, terms)
	} else {
		resp, err = s.api.SearchTV(ctx, terms)
	}
	if err != nil {
		return "", fmt.Errorf("tmdb %s search: %w", s.media, err)
	}
	best, ok := RankResults(terms, resp.Results)
	if !ok {
		return "", nil
	}
	return strconv.FormatInt(best.ID, 10), nil
}

// RankResults picks the result whose title is most similar to terms. Ties
// keep TMDB's order.
func RankResults(terms string, results []tmdb.Result) (tmdb.Result, bool) {
	if len(results) == 0 {
		return tmdb.Result{}, false
	}
	query := textutil.NewTitleVector(terms)
	best, bestScore := results[0], -1.0
	for _, r := range results {
		score := textutil.Similarity(query, textutil.NewTitleVector(r.DisplayTitle()))
		if score > bestScore {
			best, bestScore = r, score
		}
	}
	return best, true
}
