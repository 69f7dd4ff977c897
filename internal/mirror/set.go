package mirror

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"mediamirror/internal/artwork"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
	"mediamirror/internal/overlay"
	"mediamirror/internal/services"
)

// URLParser turns pasted catalog and art links into stored values.
type URLParser interface {
	ParseID(rawURL string, kind library.Kind, key string) (string, bool)
	CleanURL(rawURL string) string
}

var catalogKeys = []string{
	library.KeyAniDB,
	library.KeyMAL,
	library.KeyTVDB,
	library.KeyIMDB,
	library.KeyHummingBird,
	library.KeyTMDB,
}

// Set stores one value in the own namespace of the overlay in dir and saves
// it. Catalog keys accept a catalog page URL in place of the id, and "none"
// records that the title is absent from that catalog. It returns the stored
// value and whether the overlay file changed.
func (r *Runner) Set(ctx context.Context, dir, key, raw string, parser URLParser) (any, bool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, false, fmt.Errorf("resolve %s: %w", dir, err)
	}
	root := library.FindRoot(abs)
	if root == "" {
		return nil, false, services.Wrap(services.ErrConfiguration, abs, "set", fmt.Sprintf("no %s marker in any ancestor", overlay.RootMarkerName), nil)
	}
	c, err := r.findContext(ctx, root, abs)
	if err != nil {
		return nil, false, err
	}
	value, err := parseSetValue(c, key, strings.TrimSpace(raw), parser)
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(key, value); err != nil {
		return nil, false, err
	}
	changed, err := c.Save()
	if err != nil {
		return nil, false, err
	}
	r.logger.Info("overlay value set",
		logging.String(logging.FieldEventType, "overlay_value_set"),
		logging.String(logging.FieldContext, c.Path()),
		logging.String("key", key),
		logging.Any("value", value),
		logging.Bool("changed", changed),
	)
	return value, changed, nil
}

func (r *Runner) findContext(ctx context.Context, root, dir string) (*library.Context, error) {
	var found *library.Context
	err := r.Walk(ctx, []string{root}, func(_ context.Context, c *library.Context) error {
		if found == nil && filepath.Clean(c.Path()) == dir {
			found = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, services.Wrap(services.ErrNotFound, dir, "set", "directory has no "+overlay.FileName+" overlay", nil)
	}
	return found, nil
}

func parseSetValue(c *library.Context, key, raw string, parser URLParser) (any, error) {
	switch {
	case slices.Contains(catalogKeys, key):
		if strings.EqualFold(raw, "none") {
			return nil, nil
		}
		if isHTTPURL(raw) {
			id, ok := parser.ParseID(raw, c.Kind(), key)
			if !ok {
				return nil, services.Wrap(services.ErrValidation, c.String(), "set", fmt.Sprintf("no %s id in %s", key, raw), nil)
			}
			raw = id
		}
		return idValue(raw), nil
	case slices.Contains(artwork.Resources, key):
		return parser.CleanURL(raw), nil
	case key == "season":
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, services.Wrap(services.ErrValidation, c.String(), "set", fmt.Sprintf("season must be a non-negative integer, got %q", raw), nil)
		}
		return n, nil
	case key == "name", key == "moviefilename":
		return raw, nil
	default:
		return nil, services.Wrap(services.ErrValidation, c.String(), "set", fmt.Sprintf("key %q cannot be set from the command line", key), nil)
	}
}

func isHTTPURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
