package library

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mediamirror/internal/overlay"
	"mediamirror/internal/services"
)

func TestGetPrefersMostSpecificNamespace(t *testing.T) {
	root := seriesTree(t, "season:\n\tname: 1 - First\n\ttvdb: 456\n\tanidb: 77\n")
	contexts := collect(t, root)
	if len(contexts) != 2 {
		t.Fatalf("expected 2 contexts, got %d", len(contexts))
	}
	series, season := contexts[0], contexts[1]

	if season.Kind() != KindSeason {
		t.Fatalf("kind = %q", season.Kind())
	}
	if v, _ := season.Get("tvdb"); v != 456 {
		t.Fatalf("season tvdb = %#v", v)
	}
	if v, _ := series.Get("tvdb"); v != 123 {
		t.Fatalf("series tvdb = %#v", v)
	}
	if v, ok := season.Namespace(overlay.Series).Get("tvdb"); !ok || v != 123 {
		t.Fatalf("inherited series namespace tvdb = %#v", v)
	}
	if _, ok := season.GetSingle("name"); !ok {
		t.Fatal("expected own name")
	}
	if _, ok := season.GetSingle("missing"); ok {
		t.Fatal("unexpected single lookup hit")
	}
	if got := season.Name(); got != "1 - First" {
		t.Fatalf("name = %q", got)
	}
	if season.Prefix() != "1" || season.NameNoPrefix() != "First" {
		t.Fatalf("prefix/name = %q/%q", season.Prefix(), season.NameNoPrefix())
	}
	if season.SeriesName() != "Show" || !season.IsInSeries() {
		t.Fatalf("series name = %q", season.SeriesName())
	}
	if season.Parent() != series {
		t.Fatal("season parent should be the series context")
	}
}

func TestContextsAreIsolatedCopies(t *testing.T) {
	root := seriesTree(t, "season:\n\twww_metadata:\n\t\tepisodes: 2\n")
	contexts := collect(t, root)
	series, season := contexts[0], contexts[1]

	if err := season.Set("anidb", 5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	season.Namespace(overlay.Series).Set("tvdb", 999)

	if _, ok := series.Get("anidb"); ok {
		t.Fatal("child mutation leaked into parent")
	}
	if v, _ := series.Get("tvdb"); v != 123 {
		t.Fatalf("parent series namespace changed: %#v", v)
	}
	if err := season.Set("bogus", 1); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestNameDefaultsToBasename(t *testing.T) {
	root := seriesTree(t, "season:\n")
	season := collect(t, root)[1]
	if season.Name() != "S1" {
		t.Fatalf("name = %q", season.Name())
	}
	if v, _ := season.Namespace(overlay.Series).Get("name"); v != "Show" {
		t.Fatalf("series name = %#v", v)
	}
}

func TestOverlayRejectsInconsistentTrees(t *testing.T) {
	cases := []struct {
		name   string
		build  func(t *testing.T, root string)
		marker error
		want   string
	}{
		{
			name: "unknown key",
			build: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "M", ".info"), "movie:\n\tfoo: 1\n")
				touch(t, filepath.Join(root, "M"), "a.mkv")
			},
			marker: services.ErrConfiguration,
			want:   `unknown key "foo"`,
		},
		{
			name: "series with media",
			build: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "S", ".info"), "series:\n")
				touch(t, filepath.Join(root, "S"), "a.mkv")
			},
			marker: services.ErrValidation,
			want:   "must not contain media files",
		},
		{
			name: "movie without media",
			build: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "M", ".info"), "movie:\n")
			},
			marker: services.ErrValidation,
			want:   "no media files",
		},
		{
			name: "ambiguous movie",
			build: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "M", ".info"), "movie:\n")
				touch(t, filepath.Join(root, "M"), "a.mkv", "b.mkv")
			},
			marker: services.ErrValidation,
			want:   "exactly one media file",
		},
		{
			name: "missing moviefilename",
			build: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "M", ".info"), "movie:\n\tmoviefilename: c.mkv\n")
				touch(t, filepath.Join(root, "M"), "a.mkv", "b.mkv")
			},
			marker: services.ErrValidation,
			want:   `"c.mkv"`,
		},
		{
			name: "no block",
			build: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "M", ".info"), "")
				touch(t, filepath.Join(root, "M"), "a.mkv")
			},
			marker: services.ErrConfiguration,
			want:   "no namespace block",
		},
		{
			name: "regex without group",
			build: func(t *testing.T, root string) {
				writeFile(t, filepath.Join(root, "S", ".info"), "season:\n\toverride_epregex: 'ep\\d+'\n")
				touch(t, filepath.Join(root, "S"), "a.mkv")
			},
			marker: services.ErrConfiguration,
			want:   "no capture group",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			tc.build(t, root)
			_, err := Collect(t.Context(), root, DefaultOptions())
			if err == nil {
				t.Fatal("expected error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T: %v", err, err)
			}
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected marker %v, got %v", tc.marker, err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestIgnoredContextSkipsValidation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Junk", ".info"), "movie:\nignore: true\n")
	writeFile(t, filepath.Join(root, "Junk", "Inner", ".info"), "movie:\n")
	touch(t, filepath.Join(root, "Junk", "Inner"), "film.mkv")

	contexts := collect(t, root)
	if len(contexts) != 2 {
		t.Fatalf("expected ignored context and its child, got %d", len(contexts))
	}
	if contexts[0].Kind() != KindIgnore {
		t.Fatalf("kind = %q", contexts[0].Kind())
	}
	if contexts[1].Kind() != KindMovie || contexts[1].Parent() != contexts[0] {
		t.Fatal("child of ignored context should still be visited")
	}
	file, err := contexts[1].MovieFilename()
	if err != nil || file != "film.mkv" {
		t.Fatalf("MovieFilename = %q, %v", file, err)
	}
}

func TestReflectedPaths(t *testing.T) {
	root := seriesTree(t, "season:\n\twww_metadata:\n\t\tepisodes: 2\n")
	reflected := t.TempDir()
	writeFile(t, filepath.Join(root, overlay.RootMarkerName), reflected+"\n")

	season := collect(t, root)[1]
	path, err := season.ReflectedPath()
	if err != nil {
		t.Fatalf("ReflectedPath: %v", err)
	}
	if want := filepath.Join(reflected, "Show", "S1"); path != want {
		t.Fatalf("reflected path = %q, want %q", path, want)
	}
	under, err := season.UnderRootPath()
	if err != nil || under != filepath.Join(root, "Show") {
		t.Fatalf("UnderRootPath = %q, %v", under, err)
	}
	if season.IsRightUnderRoot() || !season.Parent().IsRightUnderRoot() {
		t.Fatal("only the series sits directly under the root")
	}
	if _, err := season.EnsureReflectedPath(); err != nil {
		t.Fatalf("EnsureReflectedPath: %v", err)
	}
}

func TestReflectedRootMustBeAbsoluteDirectory(t *testing.T) {
	root := seriesTree(t, "season:\n\twww_metadata:\n\t\tepisodes: 2\n")
	writeFile(t, filepath.Join(root, overlay.RootMarkerName), "relative/dir\n")
	season := collect(t, root)[1]
	if _, err := season.ReflectedRoot(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	writeFile(t, filepath.Join(root, overlay.RootMarkerName), filepath.Join(root, "missing")+"\n")
	if _, err := season.ReflectedRoot(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing dir, got %v", err)
	}
}

func TestKindCatalogsAndArt(t *testing.T) {
	if got := strings.Join(KindSeries.IDKeys(), ","); got != "tvdb,tmdb" {
		t.Fatalf("series ids = %s", got)
	}
	if got := strings.Join(KindOVA.IDKeys(), ","); got != "anidb,mal" {
		t.Fatalf("ova ids = %s", got)
	}
	if KindSoundtrack.ExpectedArt() != nil || len(KindMovie.ExpectedArt()) != 2 {
		t.Fatal("unexpected art expectations")
	}
	if KindOVA.Label() != "OVA" || KindSeason.Label() != "Season" {
		t.Fatalf("labels = %q %q", KindOVA.Label(), KindSeason.Label())
	}
}
