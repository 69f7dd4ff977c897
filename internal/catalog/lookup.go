package catalog

import (
	"context"
	"log/slog"

	"mediamirror/internal/logging"
)

// Lookup is a best-match search running in the background.
type Lookup struct {
	Source Source
	Terms  string

	done chan struct{}
	id   string
	err  error
}

// StartLookup begins a best-match search for terms. The search stops early
// when ctx is cancelled.
func StartLookup(ctx context.Context, source Source, terms string) *Lookup {
	l := &Lookup{Source: source, Terms: terms, done: make(chan struct{})}
	go func() {
		defer close(l.done)
		l.id, l.err = source.BestMatch(ctx, terms)
	}()
	return l
}

// Wait blocks until the lookup finishes or ctx is done. A failed lookup is
// reported as no match; only cancellation of ctx is returned as an error.
func (l *Lookup) Wait(ctx context.Context, logger *slog.Logger) (string, error) {
	select {
	case <-l.done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if l.err != nil {
		logging.WarnWithContext(logger, "catalog lookup failed", "catalog_lookup_failed",
			logging.String("catalog", l.Source.Name()),
			logging.String("terms", l.Terms),
			logging.Error(l.err),
			logging.String(logging.FieldErrorHint, "set the id by hand from the search page"),
			logging.String(logging.FieldImpact, "treated as no match"),
		)
		return "", nil
	}
	return l.id, nil
}

// Err returns the lookup's own failure once it has finished.
func (l *Lookup) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}
