package library

import (
	"context"
	"os"
	"path/filepath"

	"mediamirror/internal/logging"
	"mediamirror/internal/overlay"
	"mediamirror/internal/services"
)

// WalkFunc is called for every annotated directory in traversal order.
type WalkFunc func(*Context) error

// Walk visits every directory below root that carries an overlay, parents
// before children and siblings in name order. A root that is not a directory
// is logged and skipped. Subdirectories of ignored contexts are still
// visited.
func Walk(ctx context.Context, root string, opts Options, fn WalkFunc) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, root, "resolve root", "", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		logging.WarnWithContext(opts.logger(), "skipping root that is not a directory", "walk_root_skipped",
			logging.String("root", root),
			logging.String(logging.FieldErrorHint, "pass an existing library directory"),
			logging.String(logging.FieldImpact, "nothing under this root is reflected"),
		)
		return nil
	}
	return walkDir(ctx, abs, NewBase(abs, opts), fn)
}

func walkDir(ctx context.Context, dir string, parent *Context, fn WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, dir, "list directory", "", err)
	}

	current := parent
	if hasOverlay(entries) {
		doc, err := overlay.Read(dir)
		if err != nil {
			return &ConfigError{Context: dir, Op: "read overlay", Marker: services.ErrConfiguration, Err: err}
		}
		current, err = Overlay(parent, dir, doc)
		if err != nil {
			return err
		}
		warnUnknownCount(current)
		if err := fn(current); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := walkDir(ctx, path, current, fn); err != nil {
			return err
		}
	}
	return nil
}

func hasOverlay(entries []os.DirEntry) bool {
	for _, entry := range entries {
		if entry.Name() == overlay.FileName && !entry.IsDir() {
			return true
		}
	}
	return false
}

func warnUnknownCount(c *Context) {
	if !c.kind.Episodic() {
		return
	}
	if _, known, disabled := c.ExpectedEpisodeCount(); known || disabled {
		return
	}
	logging.WarnWithContext(c.Logger(), "episode count unknown", "episode_count_unknown",
		logging.String(logging.FieldErrorHint, "set www_metadata.episodes or metadata_preferences.episodes"),
		logging.String(logging.FieldImpact, "every recognised episode is reflected without a completeness check"),
	)
}

// Collect gathers every context under root in traversal order.
func Collect(ctx context.Context, root string, opts Options) ([]*Context, error) {
	var out []*Context
	err := Walk(ctx, root, opts, func(c *Context) error {
		out = append(out, c)
		return nil
	})
	return out, err
}

// Descendants returns the contexts below c (exclusive) from a collected list.
func Descendants(c *Context, all []*Context) []*Context {
	var out []*Context
	for _, candidate := range all {
		for cur := candidate.parent; cur != nil; cur = cur.parent {
			if cur == c {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}
