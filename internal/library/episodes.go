package library

import (
	"cmp"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"mediamirror/internal/overlay"
	"mediamirror/internal/textutil"
)

// MainSubseries tags episodes that belong to the context's own numbering.
const MainSubseries = "main"

var indexPattern = regexp.MustCompile(`^(\d+)(?:\.(\d+))?$`)

// Episode is one resolved media file of a season or OVA.
type Episode struct {
	// Index is the canonical index: "3" or "2.5".
	Index     string
	Filename  string
	Title     string
	Summary   string
	Airdate   string
	Subseries string

	width     int
	titleBase string
	nameBase  string
}

// IsMain reports whether the episode belongs to the main numbering.
func (e Episode) IsMain() bool { return e.Subseries == MainSubseries }

// IsInteger reports whether the index has no decimal part.
func (e Episode) IsInteger() bool { return !strings.Contains(e.Index, ".") }

// Number returns the integer part of the index.
func (e Episode) Number() int {
	whole, _, _ := strings.Cut(e.Index, ".")
	n, _ := strconv.Atoi(whole)
	return n
}

func (e Episode) numeric() float64 {
	f, _ := strconv.ParseFloat(e.Index, 64)
	return f
}

// PaddedIndex zero-pads the integer part to the width shared by the
// episode's siblings.
func (e Episode) PaddedIndex() string {
	width := max(e.width, 2)
	whole, frac, hasFrac := strings.Cut(e.Index, ".")
	n, _ := strconv.Atoi(whole)
	out := fmt.Sprintf("%0*d", width, n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// DisplayTitle returns the override or metadata title, or a generated
// "<Series> - Episode NN" fallback.
func (e Episode) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return fmt.Sprintf("%s - Episode %s", e.titleBase, e.PaddedIndex())
}

// DerivedName is the filename the episode gets in the reflected tree.
func (e Episode) DerivedName() string {
	var b strings.Builder
	b.WriteString(e.nameBase)
	if !e.IsMain() {
		b.WriteString(" [")
		b.WriteString(textutil.SanitizeToken(e.Subseries))
		b.WriteString("]")
	}
	b.WriteString(".ep")
	b.WriteString(e.PaddedIndex())
	b.WriteString(filepath.Ext(e.Filename))
	return b.String()
}

func (e Episode) key() string { return e.Subseries + ":" + e.Index }

// ExpectedEpisodeCount reports the configured episode count for the context.
// known is false when neither the preferences nor the own metadata carry a
// count; disabled is true when episode resolution is turned off.
func (c *Context) ExpectedEpisodeCount() (count int, known, disabled bool) {
	prefs := c.Preferences()
	if v, ok := prefs.Get("disable_episodes"); ok && boolValue(v) {
		return 0, false, true
	}
	if v, ok := prefs.Get("episodes"); ok {
		if n, isInt := intValue(v); isInt {
			return n, true, false
		}
	}
	if v, ok := c.OwnMetadata().Get("episodes"); ok && v != nil {
		if n, isInt := intValue(v); isInt {
			return n, true, false
		}
	}
	return 0, false, false
}

// ResolveEpisodes maps the media files of a season or OVA to episodes. The
// main episodes 1..N come first in order, followed by decimal and subseries
// episodes sorted by subseries then index. Files no rule recognises are left
// out.
func ResolveEpisodes(c *Context) ([]Episode, error) {
	if !c.kind.Episodic() {
		return nil, fmt.Errorf("%s: %w", c, ErrNotEpisodic)
	}
	count, known, disabled := c.ExpectedEpisodeCount()
	if disabled {
		return []Episode{}, nil
	}
	files, err := c.MediaFilenames()
	if err != nil {
		return nil, err
	}
	if known && count > len(files) {
		return nil, validationErrorf(c, "episodes", "expected %d episodes but only %d media files are present", count, len(files))
	}

	epdata := mapValue(c.Metadata().Get("epdata"))
	custom := c.GetString("override_epregex")
	found := make(map[string]*Episode)
	consumed := make(map[string]bool)

	if overrides, ok := c.Get("override_epdata"); ok {
		patterns := mapValue(overrides, true)
		for _, pattern := range patterns.Keys() {
			entryValue, _ := patterns.Get(pattern)
			entry := mapValue(entryValue, true)
			ep, err := c.resolveOverride(pattern, entry, files, custom)
			if err != nil {
				return nil, err
			}
			if prior, dup := found[ep.key()]; dup {
				return nil, validationErrorf(c, "episodes", "episode %s of %s is defined twice: %q and %q", ep.Index, ep.Subseries, prior.Filename, ep.Filename)
			}
			if ep.IsMain() {
				fillFromMetadata(ep, epdata)
			}
			found[ep.key()] = ep
			consumed[ep.Filename] = true
		}
	}

	for _, file := range files {
		if consumed[file] {
			continue
		}
		n, ok, err := GuessEpisodeNumber(file, custom, c.opts.MediaExtensions)
		if err != nil {
			return nil, configErrorf(c, "episodes", "override_epregex %q: %v", custom, err)
		}
		if !ok {
			continue
		}
		ep := &Episode{Index: strconv.Itoa(n), Filename: file, Subseries: MainSubseries}
		if prior, dup := found[ep.key()]; dup {
			return nil, validationErrorf(c, "episodes", "episode %d found twice: %q and %q", n, prior.Filename, file)
		}
		fillFromMetadata(ep, epdata)
		found[ep.key()] = ep
	}

	mainIntegers := 0
	for _, ep := range found {
		if ep.IsMain() && ep.IsInteger() {
			mainIntegers++
		}
	}
	if known && mainIntegers > count {
		return nil, validationErrorf(c, "episodes", "found %d main episodes but expected %d", mainIntegers, count)
	}
	if !known {
		count = mainIntegers
	}

	ordered := make([]Episode, 0, len(found))
	for i := 1; i <= count; i++ {
		ep, ok := found[MainSubseries+":"+strconv.Itoa(i)]
		if !ok {
			return nil, validationErrorf(c, "episodes", "episode %d not found; recognised %q among files %q", i, recognisedFiles(found), files)
		}
		ordered = append(ordered, *ep)
		delete(found, ep.key())
	}
	rest := make([]Episode, 0, len(found))
	for _, ep := range found {
		rest = append(rest, *ep)
	}
	slices.SortFunc(rest, func(a, b Episode) int {
		if a.IsMain() != b.IsMain() {
			if a.IsMain() {
				return -1
			}
			return 1
		}
		if r := cmp.Compare(a.Subseries, b.Subseries); r != 0 {
			return r
		}
		return cmp.Compare(a.numeric(), b.numeric())
	})
	ordered = append(ordered, rest...)

	width := max(2, int(math.Ceil(math.Log10(float64(len(ordered)+1)))))
	titleBase := c.SeriesName()
	if titleBase == "" {
		titleBase = c.NameNoPrefix()
	}
	nameBase := c.DerivedBaseName()
	for i := range ordered {
		ordered[i].width = width
		ordered[i].titleBase = titleBase
		ordered[i].nameBase = nameBase
	}
	return ordered, nil
}

// DerivedBaseName is the filename stem used for entries reflected from this
// context: "<Series> - <Name>" inside a series, otherwise "<Name>".
func (c *Context) DerivedBaseName() string {
	name := c.NameNoPrefix()
	if series := c.SeriesName(); series != "" && c.kind != KindSeries {
		name = series + " - " + name
	}
	return textutil.SanitizeFileName(name)
}

func (c *Context) resolveOverride(pattern string, entry *overlay.Map, files []string, custom string) (*Episode, error) {
	re, err := compileUserPattern(pattern)
	if err != nil {
		return nil, configErrorf(c, "episodes", "override_epdata pattern %q: %v", pattern, err)
	}
	var matched []string
	for _, file := range files {
		ok, err := re.MatchString(file)
		if err != nil {
			return nil, configErrorf(c, "episodes", "override_epdata pattern %q: %v", pattern, err)
		}
		if ok {
			matched = append(matched, file)
		}
	}
	switch len(matched) {
	case 0:
		return nil, validationErrorf(c, "episodes", "override_epdata pattern %q matches no file among %q", pattern, files)
	case 1:
	default:
		return nil, validationErrorf(c, "episodes", "override_epdata pattern %q matches more than one file: %q", pattern, matched)
	}
	file := matched[0]

	var index string
	if v, ok := entry.Get("index"); ok && v != nil {
		index, err = canonicalIndex(v)
		if err != nil {
			return nil, configErrorf(c, "episodes", "override_epdata pattern %q: %v", pattern, err)
		}
	} else {
		n, ok, err := GuessEpisodeNumber(file, custom, c.opts.MediaExtensions)
		if err != nil {
			return nil, configErrorf(c, "episodes", "override_epregex %q: %v", custom, err)
		}
		if !ok {
			return nil, validationErrorf(c, "episodes", "override_epdata pattern %q has no index and none can be guessed from %q", pattern, file)
		}
		index = strconv.Itoa(n)
	}

	ep := &Episode{Index: index, Filename: file, Subseries: c.subseriesFor(entry)}
	ep.Title = stringField(entry, "title")
	ep.Summary = stringField(entry, "summary")
	ep.Airdate = stringField(entry, "airdate")
	return ep, nil
}

func (c *Context) subseriesFor(entry *overlay.Map) string {
	for _, key := range SubseriesKeys {
		v, ok := entry.Get(key)
		if !ok || v == nil {
			continue
		}
		value := scalarString(v)
		if own, has := c.CatalogID(key); has && own == value {
			continue
		}
		return key + ":" + value
	}
	return MainSubseries
}

func fillFromMetadata(ep *Episode, epdata *overlay.Map) {
	if !ep.IsInteger() {
		return
	}
	v, ok := epdata.Get(ep.Index)
	if !ok {
		return
	}
	data := mapValue(v, true)
	if ep.Title == "" {
		ep.Title = stringField(data, "title")
	}
	if ep.Summary == "" {
		ep.Summary = stringField(data, "summary")
	}
	if ep.Airdate == "" {
		ep.Airdate = stringField(data, "airdate")
	}
}

func stringField(m *overlay.Map, key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(scalarString(v))
}

func canonicalIndex(v any) (string, error) {
	raw := strings.TrimSpace(scalarString(v))
	parts := indexPattern.FindStringSubmatch(raw)
	if parts == nil {
		return "", fmt.Errorf("index %q is not a number", raw)
	}
	whole, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("index %q: %w", raw, err)
	}
	frac := strings.TrimRight(parts[2], "0")
	if frac == "" {
		return strconv.Itoa(whole), nil
	}
	return strconv.Itoa(whole) + "." + frac, nil
}

func recognisedFiles(found map[string]*Episode) []string {
	out := make([]string, 0, len(found))
	for _, ep := range found {
		out = append(out, ep.Filename)
	}
	slices.Sort(out)
	return out
}
