package mirror

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mediamirror/internal/catalog"
	"mediamirror/internal/config"
	"mediamirror/internal/services"
)

func newRegistry() *catalog.Registry {
	return catalog.NewRegistry(catalog.NewFetcher(config.Default().Catalog), nil)
}

func TestArtNeedsGroupsByTopLevelDirectory(t *testing.T) {
	root, _ := buildTree(t)
	writeFile(t, filepath.Join(root, "Show", "fanart.jpg"), "")
	writeFile(t, filepath.Join(root, "Show", "poster.png"), "")
	writeFile(t, filepath.Join(root, "Film", ".info"), "movie:\n\timdb: tt0094625\n\tbackground: http://example.com/bg.jpg\n")

	needs, err := newRunner().ArtNeeds(context.Background(), []string{root}, newRegistry())
	if err != nil {
		t.Fatalf("ArtNeeds: %v", err)
	}
	if len(needs) != 2 {
		t.Fatalf("needs = %+v", needs)
	}
	byDir := make(map[string]ArtNeed)
	for _, need := range needs {
		byDir[filepath.Base(need.Context)] = need
	}

	show := byDir["Show"]
	if strings.Join(show.Missing, ",") != "background,poster" {
		t.Fatalf("show missing = %v", show.Missing)
	}
	if len(show.Contexts) != 1 || show.Contexts[0] != filepath.Join(root, "Show", "S1") {
		t.Fatalf("show contexts = %v", show.Contexts)
	}
	if len(show.Searches) == 0 || !strings.Contains(show.Searches[0], "thetvdb.com") {
		t.Fatalf("tvdb must be searched first: %v", show.Searches)
	}

	film := byDir["Film"]
	if strings.Join(film.Missing, ",") != "poster" {
		t.Fatalf("film missing = %v", film.Missing)
	}
	if len(film.Searches) != 5 {
		t.Fatalf("film searches = %v", film.Searches)
	}
	if film.Searches[2] != "http://www.movieposterdb.com/search/?query=tt0094625" {
		t.Fatalf("imdb poster search missing: %v", film.Searches)
	}
}

func TestArtNeedsSkipsCompleteDirectories(t *testing.T) {
	root, _ := buildTree(t)
	writeFile(t, filepath.Join(root, "Show", ".info"), "series:\n\tbackground: http://example.com/bg.jpg\n\tposter: http://example.com/p.jpg\n")
	writeFile(t, filepath.Join(root, "Show", "S1", "fanart.png"), "")
	writeFile(t, filepath.Join(root, "Show", "S1", "poster.jpg"), "")

	needs, err := newRunner().ArtNeeds(context.Background(), []string{root}, newRegistry())
	if err != nil {
		t.Fatalf("ArtNeeds: %v", err)
	}
	if len(needs) != 1 || filepath.Base(needs[0].Context) != "Film" {
		t.Fatalf("needs = %+v", needs)
	}
}

func TestSetParsesCatalogURL(t *testing.T) {
	root, _ := buildTree(t)

	value, changed, err := newRunner().Set(context.Background(), filepath.Join(root, "Show"), "tvdb", "http://thetvdb.com/?tab=series&id=76885&lid=7", newRegistry())
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if value != 76885 || !changed {
		t.Fatalf("value = %#v changed = %v", value, changed)
	}
	if info := readFile(t, filepath.Join(root, "Show", ".info")); !strings.Contains(info, "tvdb: 76885") {
		t.Fatalf("overlay not updated:\n%s", info)
	}

	_, changed, err = newRunner().Set(context.Background(), filepath.Join(root, "Show"), "tvdb", "76885", newRegistry())
	if err != nil || changed {
		t.Fatalf("repeated Set changed = %v err = %v", changed, err)
	}
}

func TestSetCleansArtURL(t *testing.T) {
	root, _ := buildTree(t)

	value, _, err := newRunner().Set(context.Background(), filepath.Join(root, "Show", "S1"), "poster", "http://static.minitokyo.net/downloads/12/34/567.jpg?ref=gallery", newRegistry())
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if value != "http://static.minitokyo.net/downloads/12/34/567.jpg" {
		t.Fatalf("value = %#v", value)
	}
}

func TestSetRecordsAbsentCatalog(t *testing.T) {
	root, _ := buildTree(t)

	value, changed, err := newRunner().Set(context.Background(), filepath.Join(root, "Film"), "imdb", "None", newRegistry())
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if value != nil || !changed {
		t.Fatalf("value = %#v changed = %v", value, changed)
	}
}

func TestSetRejectsBadInput(t *testing.T) {
	root, _ := buildTree(t)
	writeFile(t, filepath.Join(root, "Show", "extras", "clip.mkv"), "")
	runner := newRunner()
	ctx := context.Background()

	cases := []struct {
		name   string
		dir    string
		key    string
		value  string
		marker error
	}{
		{"url without id", filepath.Join(root, "Show"), "tvdb", "http://example.com/show", services.ErrValidation},
		{"season not a number", filepath.Join(root, "Show", "S1"), "season", "first", services.ErrValidation},
		{"unsupported key", filepath.Join(root, "Show"), "www_metadata", "x", services.ErrValidation},
		{"no overlay", filepath.Join(root, "Show", "extras"), "name", "Extras", services.ErrNotFound},
		{"outside any root", t.TempDir(), "name", "Loose", services.ErrConfiguration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := runner.Set(ctx, tc.dir, tc.key, tc.value, newRegistry()); !errors.Is(err, tc.marker) {
				t.Fatalf("expected %v, got %v", tc.marker, err)
			}
		})
	}
}
