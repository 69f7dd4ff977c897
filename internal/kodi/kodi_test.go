package kodi

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"mediamirror/internal/config"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
)

const viewSchema = `CREATE TABLE view (
	idView integer primary key,
	window integer,
	path text,
	viewMode integer,
	sortMethod integer,
	sortOrder integer,
	sortAttributes integer,
	skin text
)`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newProfile(t *testing.T, settings string) string {
	t.Helper()
	profile := t.TempDir()
	dbPath := DatabasePath(profile)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(viewSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	writeFile(t, GUISettingsPath(profile), settings)
	return profile
}

func buildLibrary(t *testing.T) (string, []*library.Context) {
	t.Helper()
	root := t.TempDir()
	reflected := t.TempDir()
	writeFile(t, filepath.Join(root, ".root"), reflected)
	writeFile(t, filepath.Join(root, "Show", ".info"), "series:\n\tname: Show\n")
	writeFile(t, filepath.Join(root, "Show", "S1", ".info"), "season:\n\tseason: 1\n")
	writeFile(t, filepath.Join(root, "Show", "S1", "Show 01.mkv"), "")
	writeFile(t, filepath.Join(root, "Film", ".info"), "movie:\n\tname: Film\n")
	writeFile(t, filepath.Join(root, "Film", "film.mkv"), "")
	writeFile(t, filepath.Join(root, "OST", ".info"), "soundtrack:\n")
	contexts, err := library.Collect(context.Background(), root, library.DefaultOptions())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return reflected, contexts
}

func viewModes(t *testing.T, profile string) map[string]int {
	t.Helper()
	db, err := sql.Open("sqlite", DatabasePath(profile))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	rows, err := db.Query("SELECT path, viewMode FROM view")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var path string
		var mode int
		if err := rows.Scan(&path, &mode); err != nil {
			t.Fatal(err)
		}
		out[path] = mode
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestUpdaterRecordsViewModes(t *testing.T) {
	reflected, contexts := buildLibrary(t)
	profile := newProfile(t, "<settings/>\n")
	updater := NewUpdater(config.Kodi{Profiles: []string{profile}, Skin: "skin.test"}, logging.NewNop())

	summary, err := updater.Update(context.Background(), contexts)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if summary.Inserted != 3 || summary.Updated != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	sep := string(filepath.Separator)
	want := map[string]int{
		filepath.Join(reflected, "Show") + sep:       ViewModePosters,
		filepath.Join(reflected, "Show", "S1") + sep: ViewModeLowList,
		filepath.Join(reflected, "Film") + sep:       ViewModeLowList,
	}
	got := viewModes(t, profile)
	if len(got) != len(want) {
		t.Fatalf("rows = %v", got)
	}
	for path, mode := range want {
		if got[path] != mode {
			t.Errorf("%s: view mode %d, want %d", path, got[path], mode)
		}
	}

	summary, err = updater.Update(context.Background(), contexts)
	if err != nil || summary.Unchanged != 3 || summary.Inserted+summary.Updated != 0 {
		t.Fatalf("second Update = %+v, %v", summary, err)
	}

	db, err := sql.Open("sqlite", DatabasePath(profile))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE view SET viewMode = 1 WHERE path = ?", filepath.Join(reflected, "Film")+sep); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	summary, err = updater.Update(context.Background(), contexts)
	if err != nil || summary.Updated != 1 || summary.Unchanged != 2 {
		t.Fatalf("third Update = %+v, %v", summary, err)
	}
}

func TestOpenViewStoreRequiresDatabase(t *testing.T) {
	if _, err := OpenViewStore(t.TempDir(), "skin.test"); err == nil {
		t.Fatal("expected error for profile without database")
	}
}

func TestSetFallbackBackground(t *testing.T) {
	settings := `<?xml version="1.0" encoding="UTF-8"?>
<settings version="2">
    <skinsettings>
        <setting type="string" name="skin.test.System.Fallback">old.jpg</setting>
        <setting type="string" name="skin.test.Movies.Fallback" />
        <setting type="string" name="skin.test.TVShows.Fallback">/art/bg &amp; more.jpg</setting>
        <setting type="string" name="skin.test.Videos.Fallback"></setting>
        <setting type="string" name="other.Fallback">keep.jpg</setting>
    </skinsettings>
</settings>
`
	want := `<?xml version="1.0" encoding="UTF-8"?>
<settings version="2">
    <skinsettings>
        <setting type="string" name="skin.test.System.Fallback">/art/bg &amp; more.jpg</setting>
        <setting type="string" name="skin.test.Movies.Fallback">/art/bg &amp; more.jpg</setting>
        <setting type="string" name="skin.test.TVShows.Fallback">/art/bg &amp; more.jpg</setting>
        <setting type="string" name="skin.test.Videos.Fallback">/art/bg &amp; more.jpg</setting>
        <setting type="string" name="other.Fallback">keep.jpg</setting>
    </skinsettings>
</settings>
`
	profile := newProfile(t, settings)
	changed, err := SetFallbackBackground(profile, "skin.test", "/art/bg & more.jpg")
	if err != nil || !changed {
		t.Fatalf("SetFallbackBackground = %v, %v", changed, err)
	}
	got, err := os.ReadFile(GUISettingsPath(profile))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("guisettings mismatch\n got:\n%s\nwant:\n%s", got, want)
	}

	changed, err = SetFallbackBackground(profile, "skin.test", "/art/bg & more.jpg")
	if err != nil || changed {
		t.Fatalf("second SetFallbackBackground = %v, %v", changed, err)
	}
}

func TestViewModeFor(t *testing.T) {
	cases := map[library.Kind]int{
		library.KindSeries: ViewModePosters,
		library.KindSeason: ViewModeLowList,
		library.KindMovie:  ViewModeLowList,
		library.KindOVA:    ViewModeLowList,
	}
	for kind, want := range cases {
		if got, ok := ViewModeFor(kind); !ok || got != want {
			t.Errorf("ViewModeFor(%q) = %d, %v", kind, got, ok)
		}
	}
	for _, kind := range []library.Kind{library.KindNone, library.KindSoundtrack, library.KindIgnore} {
		if _, ok := ViewModeFor(kind); ok {
			t.Errorf("ViewModeFor(%q) should have no view", kind)
		}
	}
}
