package mirror

import (
	"context"
	"errors"
	"strconv"

	"mediamirror/internal/catalog"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
)

// SourceFinder lists the catalogs a context should carry ids for.
type SourceFinder interface {
	ForContext(c *library.Context) []catalog.Source
}

// IdentifyRow is one (context, catalog) pair of an identify pass.
type IdentifyRow struct {
	Context string
	Catalog string
	ID      string
	// URL is the catalog page of ID, or the search page when nothing matched.
	URL string
	// Known is set when the id was already present before the pass.
	Known bool
}

// Found reports whether the row carries an id.
func (r IdentifyRow) Found() bool { return r.ID != "" }

// Identify fills missing catalog ids. Lookups for one context run in the
// background together; each is awaited for at most the lookup timeout, and
// a lookup that fails or times out counts as no match.
func (r *Runner) Identify(ctx context.Context, roots []string, finder SourceFinder) ([]IdentifyRow, error) {
	var rows []IdentifyRow
	err := r.Walk(ctx, roots, func(ctx context.Context, c *library.Context) error {
		found, err := r.identifyContext(ctx, c, finder)
		rows = append(rows, found...)
		return err
	})
	return rows, err
}

type pendingLookup struct {
	source catalog.Source
	lookup *catalog.Lookup
}

func (r *Runner) identifyContext(ctx context.Context, c *library.Context, finder SourceFinder) ([]IdentifyRow, error) {
	sources := finder.ForContext(c)
	if len(sources) == 0 {
		return nil, nil
	}
	logger := r.contextLogger(ctx)
	terms := c.SearchableName()

	lookupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var rows []IdentifyRow
	var pending []pendingLookup
	for _, source := range sources {
		if id, ok := c.CatalogID(source.Key()); ok && id != "" {
			rows = append(rows, IdentifyRow{
				Context: c.String(), Catalog: source.Name(), ID: id, URL: source.OpenURL(id), Known: true,
			})
			continue
		}
		pending = append(pending, pendingLookup{source: source, lookup: catalog.StartLookup(lookupCtx, source, terms)})
	}

	changed := false
	for _, p := range pending {
		waitCtx, cancelWait := context.WithTimeout(ctx, r.lookupTimeout)
		id, err := p.lookup.Wait(waitCtx, logger)
		cancelWait()
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				return rows, err
			}
			logging.WarnWithContext(logger, "catalog lookup timed out", "catalog_lookup_timeout",
				logging.String("catalog", p.source.Name()),
				logging.String("terms", terms),
				logging.Duration("timeout", r.lookupTimeout),
				logging.String(logging.FieldErrorHint, "set the id by hand from the search page"),
				logging.String(logging.FieldImpact, "treated as no match"),
			)
			id = ""
		}
		row := IdentifyRow{Context: c.String(), Catalog: p.source.Name(), ID: id}
		if id == "" {
			row.URL = p.source.SearchURL(terms)
			rows = append(rows, row)
			continue
		}
		if err := c.Set(p.source.Key(), idValue(id)); err != nil {
			return rows, err
		}
		changed = true
		row.URL = p.source.OpenURL(id)
		rows = append(rows, row)
		logger.Info("catalog id recorded",
			logging.String(logging.FieldEventType, "catalog_id_recorded"),
			logging.String("catalog", p.source.Name()),
			logging.String("id", id),
		)
	}

	if changed {
		if _, err := c.Save(); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

// idValue stores numeric ids as integers, the way they are written by hand.
func idValue(id string) any {
	if n, err := strconv.Atoi(id); err == nil && n >= 0 && strconv.Itoa(n) == id {
		return n
	}
	return id
}
