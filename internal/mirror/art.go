package mirror

import (
	"context"
	"maps"
	"slices"

	"mediamirror/internal/artwork"
	"mediamirror/internal/catalog"
	"mediamirror/internal/kodi"
	"mediamirror/internal/library"
)

// Grab stores the art named by every context's overlay. It returns the
// number of files written.
func (r *Runner) Grab(ctx context.Context, roots []string, grabber *artwork.Grabber) (int, error) {
	total := 0
	err := r.Walk(ctx, roots, func(ctx context.Context, c *library.Context) error {
		n, err := grabber.Grab(ctx, c)
		total += n
		return err
	})
	return total, err
}

// VerifyArt checks the aspect ratio of every stored art file and stops at
// the first one with the wrong shape.
func (r *Runner) VerifyArt(ctx context.Context, roots []string) (int, error) {
	checked := 0
	err := r.Walk(ctx, roots, func(_ context.Context, c *library.Context) error {
		checked++
		return artwork.Verify(c)
	})
	return checked, err
}

// UpdateKodi records view modes for every reflected context and sets the
// configured fallback background in each Kodi profile.
func (r *Runner) UpdateKodi(ctx context.Context, roots []string) (kodi.Summary, error) {
	contexts, err := r.Collect(ctx, roots)
	if err != nil {
		return kodi.Summary{}, err
	}
	return kodi.NewUpdater(r.cfg.Kodi, r.logger).Update(ctx, contexts)
}

// ArtFinder picks the art sites that carry some of the needed resources.
type ArtFinder interface {
	ArtSources(needed []string) []catalog.ArtSource
}

// ArtNeed describes the art still missing below one top-level directory.
type ArtNeed struct {
	Context string
	// Missing is the sorted set of resources absent somewhere below Context.
	Missing []string
	// Contexts lists the directories lacking at least one resource.
	Contexts []string
	// Searches are the art-site pages worth opening, in gathering order.
	Searches []string
}

// ArtNeeds reports, per directory directly below a root, which expected
// art is neither named in an overlay nor already stored.
func (r *Runner) ArtNeeds(ctx context.Context, roots []string, finder ArtFinder) ([]ArtNeed, error) {
	contexts, err := r.Collect(ctx, roots)
	if err != nil {
		return nil, err
	}
	var needs []ArtNeed
	for _, top := range contexts {
		if !top.IsRightUnderRoot() {
			continue
		}
		need := ArtNeed{Context: top.Path()}
		missing := make(map[string]bool)
		var imdbs []string
		for _, c := range append([]*library.Context{top}, library.Descendants(top, contexts)...) {
			lacking := missingArt(c)
			if len(lacking) > 0 {
				need.Contexts = append(need.Contexts, c.Path())
			}
			for _, art := range lacking {
				missing[art] = true
			}
			if id := c.GetString(library.KeyIMDB); id != "" && !slices.Contains(imdbs, id) {
				imdbs = append(imdbs, id)
			}
		}
		if len(missing) == 0 {
			continue
		}
		need.Missing = slices.Sorted(maps.Keys(missing))
		slices.Sort(imdbs)
		terms := top.SearchableName()
		for _, site := range finder.ArtSources(need.Missing) {
			need.Searches = append(need.Searches, site.SearchURL(terms))
			if site.Name() == catalog.MoviePosterDB {
				for _, id := range imdbs {
					need.Searches = append(need.Searches, site.SearchURL(id))
				}
			}
		}
		needs = append(needs, need)
	}
	return needs, nil
}

func missingArt(c *library.Context) []string {
	var out []string
	for _, art := range c.ExpectedArt() {
		if v, ok := c.GetSingle(art); ok && v != nil {
			continue
		}
		if artwork.Existing(c.Path(), art) != "" {
			continue
		}
		out = append(out, art)
	}
	return out
}
