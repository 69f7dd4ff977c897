package mirror

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mediamirror/internal/catalog"
	"mediamirror/internal/catalog/tmdb"
	"mediamirror/internal/config"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
	"mediamirror/internal/notifications"
	"mediamirror/internal/services"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func buildTree(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	reflected := t.TempDir()
	writeFile(t, filepath.Join(root, ".root"), reflected+"\n")
	writeFile(t, filepath.Join(root, "Show", ".info"), "series:\n\tname: Show\n\ttmdb: 30991\n")
	season := filepath.Join(root, "Show", "S1")
	writeFile(t, filepath.Join(season, ".info"), "season:\n\tname: 1 - First\n\tseason: 1\n")
	writeFile(t, filepath.Join(season, "Show S01E02.mkv"), "")
	writeFile(t, filepath.Join(season, "Show S01E01.mkv"), "")
	writeFile(t, filepath.Join(season, "notes.txt"), "")
	writeFile(t, filepath.Join(root, "Film", ".info"), "movie:\n")
	writeFile(t, filepath.Join(root, "Film", "film.mkv"), "")
	return root, reflected
}

type fakeJellyfin struct {
	calls int
	err   error
}

func (f *fakeJellyfin) Refresh(context.Context) error {
	f.calls++
	return f.err
}

func (f *fakeJellyfin) Enabled() bool { return true }

type fakeNotifier struct {
	reports []notifications.PassReport
	labels  []string
}

func (f *fakeNotifier) NotifyReflectionCompleted(_ context.Context, report notifications.PassReport) error {
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeNotifier) NotifyError(_ context.Context, _ error, label string) error {
	f.labels = append(f.labels, label)
	return nil
}

func (f *fakeNotifier) TestNotification(context.Context) error { return nil }

func newRunner(opts ...Option) *Runner {
	cfg := config.Default()
	return NewRunner(&cfg, logging.NewNop(), opts...)
}

func TestReflectIsIdempotent(t *testing.T) {
	root, reflected := buildTree(t)
	jf := &fakeJellyfin{}
	notifier := &fakeNotifier{}
	runner := newRunner(WithJellyfin(jf), WithNotifier(notifier))

	summary, err := runner.Reflect(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if summary.Contexts != 3 || !summary.Changed() || !summary.Refreshed || jf.calls != 1 {
		t.Fatalf("first pass = %+v, refreshes %d", summary, jf.calls)
	}

	episode := filepath.Join(reflected, "Show", "S1", "Show - First.ep01.mkv")
	target, err := os.Readlink(episode)
	if err != nil || target != filepath.Join(root, "Show", "S1", "Show S01E01.mkv") {
		t.Fatalf("episode link = %q, %v", target, err)
	}
	if _, err := os.Lstat(filepath.Join(reflected, "Show", "S1", "notes.txt")); err != nil {
		t.Fatalf("passthrough link missing: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(reflected, "Film", "Movie.ep00.mkv")); err != nil {
		t.Fatalf("movie link missing: %v", err)
	}
	for _, nfo := range []string{
		filepath.Join(reflected, "Show", "tvshow.nfo"),
		filepath.Join(reflected, "Show", "S1", "season.nfo"),
		filepath.Join(reflected, "Show", "S1", "Show - First.ep02.nfo"),
		filepath.Join(reflected, "Film", "tvshow.nfo"),
		filepath.Join(reflected, "Film", "Movie.ep00.nfo"),
	} {
		if _, err := os.Stat(nfo); err != nil {
			t.Errorf("descriptor missing: %v", err)
		}
	}

	summary, err = runner.Reflect(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("second Reflect: %v", err)
	}
	if summary.Changed() || summary.Refreshed || jf.calls != 1 {
		t.Fatalf("second pass changed the tree: %+v", summary)
	}
	if len(notifier.reports) != 1 || notifier.reports[0].Created != 4 || notifier.reports[0].Contexts != 3 {
		t.Fatalf("notifications = %+v", notifier.reports)
	}
	if summary.Links.Unchanged == 0 {
		t.Fatal("expected unchanged links to be counted")
	}
}

func TestReflectSweepsStaleEntries(t *testing.T) {
	root, reflected := buildTree(t)
	runner := newRunner()
	if _, err := runner.Reflect(context.Background(), []string{root}); err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	stale := filepath.Join(reflected, "Show", "S1", "Show - First.ep03.mkv")
	if err := os.Symlink(filepath.Join(root, "missing.mkv"), stale); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(reflected, "Show", "Old Season", "x.nfo"), "")

	summary, err := runner.Reflect(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if summary.Links.Removed != 2 {
		t.Fatalf("removed %d entries, want 2", summary.Links.Removed)
	}
	for _, path := range []string{stale, filepath.Join(reflected, "Show", "Old Season")} {
		if _, err := os.Lstat(path); !os.IsNotExist(err) {
			t.Errorf("%s survived the sweep: %v", path, err)
		}
	}
	if _, err := os.Lstat(filepath.Join(reflected, "Show", "S1")); err != nil {
		t.Fatalf("season directory must survive: %v", err)
	}
}

func TestReflectKeepsSourceDescriptorFiles(t *testing.T) {
	root, reflected := buildTree(t)
	sourceSeason := filepath.Join(root, "Show", "S1", "season.nfo")
	sourceShow := filepath.Join(root, "Film", "tvshow.nfo")
	writeFile(t, sourceSeason, "<user-authored/>")
	writeFile(t, sourceShow, "<user-authored/>")
	runner := newRunner(WithJellyfin(&fakeJellyfin{}), WithNotifier(&fakeNotifier{}))

	for pass := 0; pass < 2; pass++ {
		if _, err := runner.Reflect(context.Background(), []string{root}); err != nil {
			t.Fatalf("Reflect pass %d: %v", pass, err)
		}
	}

	for _, source := range []string{sourceSeason, sourceShow} {
		if got := readFile(t, source); got != "<user-authored/>" {
			t.Fatalf("%s rewritten:\n%s", source, got)
		}
	}
	derived := filepath.Join(reflected, "Show", "S1", "season.nfo")
	info, err := os.Lstat(derived)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Mode().IsRegular() {
		t.Fatalf("season.nfo mode = %v, want regular file", info.Mode())
	}
	if got := readFile(t, derived); !strings.Contains(got, "<season>1</season>") {
		t.Fatalf("season.nfo lacks the rendered descriptor:\n%s", got)
	}
	if info, err := os.Lstat(filepath.Join(reflected, "Film", "tvshow.nfo")); err != nil || !info.Mode().IsRegular() {
		t.Fatalf("Film/tvshow.nfo = %v, %v", info, err)
	}
}

func TestReflectStopsOnInconsistentSeason(t *testing.T) {
	root, _ := buildTree(t)
	writeFile(t, filepath.Join(root, "Show", "S1", ".info"), "season:\n\tname: 1 - First\n\twww_metadata:\n\t\tepisodes: 3\n")
	notifier := &fakeNotifier{}
	_, err := newRunner(WithNotifier(notifier)).Reflect(context.Background(), []string{root})
	if err == nil {
		t.Fatal("expected missing episode to stop the pass")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(notifier.labels) != 1 || !strings.Contains(notifier.labels[0], filepath.Join("Show", "S1")) {
		t.Fatalf("error notifications = %q", notifier.labels)
	}
}

type fakeSource struct {
	key   string
	id    string
	err   error
	block chan struct{}
}

func (s *fakeSource) Key() string                   { return s.key }
func (s *fakeSource) Name() string                  { return strings.ToUpper(s.key) }
func (s *fakeSource) SearchURL(terms string) string { return "search:" + terms }
func (s *fakeSource) OpenURL(id string) string      { return "open:" + id }
func (s *fakeSource) ParseID(string) (string, bool) { return "", false }
func (s *fakeSource) CleanURL(rawURL string) string { return rawURL }
func (s *fakeSource) BestMatch(ctx context.Context, _ string) (string, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.id, s.err
}

type fakeFinder map[library.Kind][]catalog.Source

func (f fakeFinder) ForContext(c *library.Context) []catalog.Source { return f[c.Kind()] }

func TestIdentifyRecordsMatches(t *testing.T) {
	root, _ := buildTree(t)
	finder := fakeFinder{
		library.KindSeries: {
			&fakeSource{key: library.KeyTVDB, id: "76885"},
			&fakeSource{key: library.KeyTMDB, id: "99"},
		},
		library.KindMovie: {
			&fakeSource{key: library.KeyIMDB, err: errors.New("search page changed")},
		},
	}

	rows, err := newRunner().Identify(context.Background(), []string{root}, finder)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %+v", rows)
	}
	byCatalog := make(map[string]IdentifyRow)
	for _, row := range rows {
		byCatalog[row.Catalog] = row
	}
	if row := byCatalog["TMDB"]; !row.Known || row.ID != "30991" {
		t.Fatalf("existing tmdb id not reported: %+v", row)
	}
	if row := byCatalog["TVDB"]; row.Known || row.ID != "76885" || row.URL != "open:76885" {
		t.Fatalf("tvdb row = %+v", row)
	}
	if row := byCatalog["IMDB"]; row.Found() || row.URL != "search:Film" {
		t.Fatalf("failed lookup must be a miss: %+v", row)
	}

	info := readFile(t, filepath.Join(root, "Show", ".info"))
	if !strings.Contains(info, "tvdb: 76885") || !strings.Contains(info, "tmdb: 30991") {
		t.Fatalf("series overlay not updated:\n%s", info)
	}
}

func TestIdentifyTimeoutIsNoMatch(t *testing.T) {
	root, _ := buildTree(t)
	block := make(chan struct{})
	defer close(block)
	finder := fakeFinder{library.KindMovie: {&fakeSource{key: library.KeyIMDB, id: "tt1", block: block}}}

	rows, err := newRunner(WithLookupTimeout(20*time.Millisecond)).Identify(context.Background(), []string{root}, finder)
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if len(rows) != 1 || rows[0].Found() {
		t.Fatalf("rows = %+v", rows)
	}
	if info := readFile(t, filepath.Join(root, "Film", ".info")); strings.Contains(info, "imdb") {
		t.Fatalf("timed out lookup must not be recorded:\n%s", info)
	}
}

type fakeTMDB struct {
	tmdb.API
}

func (fakeTMDB) GetTVDetails(_ context.Context, id int64) (*tmdb.Result, error) {
	return &tmdb.Result{
		ID: id, Name: "Cowboy Bebop", Overview: "Bounty hunters.", FirstAirDate: "1998-04-03",
		Genres: []tmdb.Genre{{ID: 1, Name: "Animation"}, {ID: 2, Name: "Drama"}},
	}, nil
}

func (fakeTMDB) GetSeasonDetails(_ context.Context, _ int64, season int) (*tmdb.SeasonDetails, error) {
	return &tmdb.SeasonDetails{
		SeasonNumber: season,
		AirDate:      "1998-10-24",
		Overview:     "The first season.",
		Episodes: []tmdb.Episode{
			{EpisodeNumber: 1, Name: "Asteroid Blues", AirDate: "1998-10-24"},
			{EpisodeNumber: 2, Name: "Stray Dog Strut", AirDate: "1998-10-31"},
		},
	}, nil
}

func TestFetchStoresMetadata(t *testing.T) {
	root, reflected := buildTree(t)
	runner := newRunner()

	saved, err := runner.Fetch(context.Background(), []string{root}, fakeTMDB{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if saved != 2 {
		t.Fatalf("saved %d overlays, want 2 (movie has no tmdb id)", saved)
	}

	contexts, err := runner.Collect(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var season *library.Context
	for _, c := range contexts {
		if c.Kind() == library.KindSeason {
			season = c
		}
	}
	if season == nil {
		t.Fatal("season not found")
	}
	if count, known, _ := season.ExpectedEpisodeCount(); !known || count != 2 {
		t.Fatalf("episode count = %d/%v", count, known)
	}
	episodes, err := library.ResolveEpisodes(season)
	if err != nil {
		t.Fatalf("ResolveEpisodes: %v", err)
	}
	if episodes[1].Title != "Stray Dog Strut" || episodes[1].Airdate != "1998-10-31" {
		t.Fatalf("episode metadata = %+v", episodes[1])
	}

	saved, err = runner.Fetch(context.Background(), []string{root}, fakeTMDB{})
	if err != nil || saved != 0 {
		t.Fatalf("second Fetch = %d, %v", saved, err)
	}

	if _, err := runner.Reflect(context.Background(), []string{root}); err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	show := readFile(t, filepath.Join(reflected, "Show", "tvshow.nfo"))
	if !strings.Contains(show, "<year>1998</year>") || !strings.Contains(show, "<genre>Animation</genre><genre>Drama</genre>") {
		t.Fatalf("tvshow.nfo lacks fetched metadata:\n%s", show)
	}
}
