package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediamirror/internal/overlay"
)

func TestSaveIsIdempotentAndRoundTrips(t *testing.T) {
	root := seriesTree(t, "season:\n\tname: 1 - First\n\tanidb: 77\n\twww_metadata:\n\t\tepisodes: 2\n")
	season := collect(t, root)[1]

	changed, err := season.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if changed {
		t.Fatal("saving an unchanged context should not rewrite the file")
	}

	if err := season.Set("mal", 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if changed, err = season.Save(); err != nil || !changed {
		t.Fatalf("expected rewrite, got changed=%v err=%v", changed, err)
	}

	reloaded := collect(t, root)[1]
	for _, name := range overlay.Namespaces {
		if !overlay.Equal(season.Namespace(name), reloaded.Namespace(name)) {
			t.Fatalf("namespace %s differs after reload: %v vs %v", name, season.Namespace(name).Keys(), reloaded.Namespace(name).Keys())
		}
	}
	if changed, err = reloaded.Save(); err != nil || changed {
		t.Fatalf("second save should be a no-op, got changed=%v err=%v", changed, err)
	}
}

func TestSaveOmitsInheritedValuesAndBasename(t *testing.T) {
	root := seriesTree(t, "season:\n\ttvdb: 123\n")
	contexts := collect(t, root)
	series, season := contexts[0], contexts[1]

	if _, err := series.Save(); err != nil {
		t.Fatalf("Save series: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "Show", overlay.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "name") || !strings.Contains(string(data), "tvdb: 123") {
		t.Fatalf("unexpected series overlay:\n%s", data)
	}

	season.Namespace(overlay.Season).Delete("tvdb")
	if _, err := season.Save(); err != nil {
		t.Fatalf("Save season: %v", err)
	}
	doc, err := overlay.Read(season.Path())
	if err != nil {
		t.Fatal(err)
	}
	if block := doc.Block(overlay.Season); block == nil || block.Len() != 0 {
		t.Fatalf("expected empty season block, got %v", block)
	}
	if doc.Block(overlay.Series) != nil {
		t.Fatal("undeclared namespaces must not be written")
	}
}

func TestSaveKeepsIgnoreMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Junk", overlay.FileName), "movie:\n\tname: Other\nignore: true\n")
	c := collect(t, root)[0]
	if _, err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc, err := overlay.Read(c.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Ignore || doc.Block(overlay.Movie) == nil {
		t.Fatalf("ignore marker or movie block lost: %+v", doc)
	}
}
