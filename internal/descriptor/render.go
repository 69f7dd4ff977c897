package descriptor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"mediamirror/internal/library"
	"mediamirror/internal/overlay"
	"mediamirror/internal/reflection"
)

// Extension is the filename extension of descriptor documents.
const Extension = ".nfo"

// Fixed descriptor filenames.
const (
	ShowFile   = "tvshow" + Extension
	SeasonFile = "season" + Extension
)

// Standalone movies are presented as season 0 and listed after real seasons.
const (
	movieSeason        = "0"
	movieDisplaySeason = "99"
	movieEpisode       = "0"
)

// Metadata is the catalog data rendered into descriptors.
type Metadata struct {
	Year   string
	Plot   string
	Genres []string
}

// MetadataOf reads year, summary and genres from the context's effective
// www_metadata.
func MetadataOf(c *library.Context) Metadata {
	meta := c.Metadata()
	out := Metadata{
		Year: scalar(meta, "year"),
		Plot: scalar(meta, "summary"),
	}
	if v, ok := meta.Get("genres"); ok {
		if list, isList := v.([]any); isList {
			for _, item := range list {
				if s := strings.TrimSpace(fmt.Sprint(item)); s != "" && item != nil {
					out.Genres = append(out.Genres, s)
				}
			}
		}
	}
	return out
}

// Document is one rendered descriptor and the derived path it belongs at.
type Document struct {
	Path    string
	Content []byte
}

// Render produces the descriptor documents for a context. Series get a show
// document; seasons get a season document plus one per episode; OVAs get
// episode documents; movies get an episode-shaped document next to the movie
// link and, outside a series, a show document as well.
func Render(c *library.Context, meta Metadata, episodes []library.Episode) ([]Document, error) {
	if !c.Kind().Reflected() {
		return nil, nil
	}
	reflected, err := c.ReflectedPath()
	if err != nil {
		return nil, err
	}

	var docs []Document
	add := func(path, name string, data any) error {
		content, err := render(name, data)
		if err != nil {
			return fmt.Errorf("render %s descriptor: %w", name, err)
		}
		docs = append(docs, Document{Path: path, Content: content})
		return nil
	}

	season := ""
	if n, ok := c.SeasonNumber(); ok {
		season = strconv.Itoa(n)
	}

	switch c.Kind() {
	case library.KindSeries:
		err = add(filepath.Join(reflected, ShowFile), "tvshow", showFields{
			Title:  c.NameNoPrefix(),
			Year:   meta.Year,
			Plot:   meta.Plot,
			ID:     c.GetString(library.KeyTVDB),
			Genres: meta.Genres,
		})
	case library.KindSeason, library.KindOVA:
		if c.Kind() == library.KindSeason {
			err = add(filepath.Join(reflected, SeasonFile), "season", seasonFields{
				Title:     c.NameNoPrefix(),
				SortTitle: c.Name(),
				Season:    season,
				Year:      meta.Year,
				Plot:      meta.Plot,
				Genres:    meta.Genres,
			})
		}
		for _, ep := range episodes {
			if err != nil {
				break
			}
			err = add(filepath.Join(reflected, episodeDocumentName(ep)), "episode", episodeFields{
				Season:        season,
				DisplaySeason: season,
				Episode:       ep.Index,
				Title:         ep.DisplayTitle(),
				Plot:          ep.Summary,
				Aired:         ep.Airdate,
			})
		}
	case library.KindMovie:
		if !c.IsInSeries() {
			err = add(filepath.Join(reflected, ShowFile), "tvshow", showFields{
				Title:  c.NameNoPrefix(),
				Year:   meta.Year,
				Plot:   meta.Plot,
				ID:     c.GetString(library.KeyIMDB),
				Genres: meta.Genres,
			})
			if err != nil {
				break
			}
		}
		var moviePath string
		if moviePath, err = reflection.MovieDerivedPath(c); err != nil {
			break
		}
		err = add(strings.TrimSuffix(moviePath, filepath.Ext(moviePath))+Extension, "episode", episodeFields{
			Season:        movieSeason,
			DisplaySeason: movieDisplaySeason,
			Episode:       movieEpisode,
			Title:         c.NameNoPrefix(),
			Plot:          meta.Plot,
			Aired:         meta.Year,
		})
	}
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func episodeDocumentName(ep library.Episode) string {
	name := ep.DerivedName()
	return strings.TrimSuffix(name, filepath.Ext(name)) + Extension
}

func scalar(m *overlay.Map, key string) string {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
