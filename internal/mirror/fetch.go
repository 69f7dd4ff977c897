package mirror

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mediamirror/internal/catalog/tmdb"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
	"mediamirror/internal/overlay"
	"mediamirror/internal/services"
)

// Fetch stores TMDB metadata in the www_metadata of every series, season,
// and movie that carries a tmdb id. Contexts without an id, and failed
// requests, are logged and skipped. It returns the number of overlays
// rewritten.
func (r *Runner) Fetch(ctx context.Context, roots []string, api tmdb.API) (int, error) {
	saved := 0
	err := r.Walk(ctx, roots, func(ctx context.Context, c *library.Context) error {
		switch c.Kind() {
		case library.KindSeries, library.KindSeason, library.KindMovie:
		default:
			return nil
		}
		logger := r.contextLogger(ctx)
		meta, err := fetchMetadata(ctx, c, api)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.WarnWithContext(logger, "metadata not fetched", "metadata_skipped",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, services.Hint(err)),
				logging.String(logging.FieldImpact, "descriptors keep the previous metadata"),
			)
			return nil
		}
		if err := c.Set("www_metadata", meta); err != nil {
			return err
		}
		changed, err := c.Save()
		if err != nil {
			return err
		}
		if changed {
			saved++
		}
		return nil
	})
	return saved, err
}

func fetchMetadata(ctx context.Context, c *library.Context, api tmdb.API) (*overlay.Map, error) {
	id, err := tmdbID(c)
	if err != nil {
		return nil, err
	}
	// Keep hand-written fields the fetch does not manage.
	meta := c.OwnMetadata().Clone()

	switch c.Kind() {
	case library.KindSeries:
		show, err := api.GetTVDetails(ctx, id)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, c.String(), "fetch show", "", err)
		}
		setSummary(meta, show.Year(), show.Overview, show.GenreNames())
	case library.KindMovie:
		movie, err := api.GetMovieDetails(ctx, id)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, c.String(), "fetch movie", "", err)
		}
		setSummary(meta, movie.Year(), movie.Overview, movie.GenreNames())
	case library.KindSeason:
		number, ok := c.SeasonNumber()
		if !ok {
			return nil, services.Wrap(services.ErrNotFound, c.String(), "fetch season", "no season number", nil)
		}
		season, err := api.GetSeasonDetails(ctx, id, number)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, c.String(), "fetch season", "", err)
		}
		show, err := api.GetTVDetails(ctx, id)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, c.String(), "fetch show", "", err)
		}
		year := ""
		if len(season.AirDate) >= 4 {
			year = season.AirDate[:4]
		}
		setSummary(meta, year, season.Overview, show.GenreNames())
		meta.Set("episodes", len(season.Episodes))
		meta.Set("epdata", episodeData(season.Episodes))
	}
	return meta, nil
}

func tmdbID(c *library.Context) (int64, error) {
	raw, ok := c.CatalogID(library.KeyTMDB)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return 0, services.Wrap(services.ErrNotFound, c.String(), "fetch metadata", "no tmdb id", nil)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrNotFound, c.String(), "fetch metadata", fmt.Sprintf("tmdb id %q is not numeric", raw), nil)
	}
	return id, nil
}

func setSummary(meta *overlay.Map, year, summary string, genres []string) {
	if n, err := strconv.Atoi(year); err == nil {
		meta.Set("year", n)
	} else {
		meta.Delete("year")
	}
	meta.Set("summary", strings.TrimSpace(summary))
	list := make([]any, 0, len(genres))
	for _, g := range genres {
		list = append(list, g)
	}
	meta.Set("genres", list)
}

func episodeData(episodes []tmdb.Episode) *overlay.Map {
	out := overlay.NewMap()
	for _, ep := range episodes {
		if ep.EpisodeNumber <= 0 {
			continue
		}
		entry := overlay.NewMap()
		entry.Set("title", strings.TrimSpace(ep.Name))
		entry.Set("summary", strings.TrimSpace(ep.Overview))
		entry.Set("airdate", ep.AirDate)
		out.Set(strconv.Itoa(ep.EpisodeNumber), entry)
	}
	return out
}
