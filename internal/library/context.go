package library

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mediamirror/internal/config"
	"mediamirror/internal/logging"
	"mediamirror/internal/overlay"
	"mediamirror/internal/textutil"
)

// Options controls how contexts classify files and report warnings.
type Options struct {
	MediaExtensions []string
	Logger          *slog.Logger
}

// DefaultOptions returns options that recognise .mkv files and discard logs.
func DefaultOptions() Options {
	return Options{MediaExtensions: []string{".mkv"}}
}

// OptionsFromConfig derives traversal options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	opts := DefaultOptions()
	if cfg != nil && len(cfg.Library.MediaExtensions) > 0 {
		opts.MediaExtensions = append([]string(nil), cfg.Library.MediaExtensions...)
	}
	opts.Logger = logger
	return opts
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

func (o *Options) isMediaExtension(ext string) bool {
	if o == nil || ext == "" {
		return false
	}
	for _, candidate := range o.MediaExtensions {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}

// Context is the effective configuration of one annotated directory. Each
// context owns an independent copy of every namespace; mutating it never
// affects its parent.
type Context struct {
	path     string
	parent   *Context
	kind     Kind
	declared []string
	ns       map[string]*overlay.Map
	opts     *Options
}

// NewBase returns the traversal base for root: no parent, no kind and empty
// namespaces.
func NewBase(root string, opts Options) *Context {
	ns := make(map[string]*overlay.Map, len(overlay.Namespaces))
	for _, name := range overlay.Namespaces {
		ns[name] = overlay.NewMap()
	}
	return &Context{path: root, ns: ns, opts: &opts}
}

func (c *Context) Path() string     { return c.path }
func (c *Context) Parent() *Context { return c.parent }
func (c *Context) Kind() Kind       { return c.kind }

// Declared lists the namespace blocks written in this directory's overlay.
func (c *Context) Declared() []string {
	return append([]string(nil), c.declared...)
}

func (c *Context) isDeclared(namespace string) bool {
	for _, name := range c.declared {
		if name == namespace {
			return true
		}
	}
	return false
}

// Namespace returns the effective dictionary for a namespace. The result is
// the context's own copy.
func (c *Context) Namespace(name string) *overlay.Map {
	if m, ok := c.ns[name]; ok {
		return m
	}
	return overlay.NewMap()
}

// Own returns the namespace selected by the context's kind, or nil for
// ignored contexts.
func (c *Context) Own() *overlay.Map {
	name := c.kind.Namespace()
	if name == "" {
		return nil
	}
	return c.ns[name]
}

// Get looks key up from the most specific namespace to the least specific
// and returns the first value present.
func (c *Context) Get(key string) (any, bool) {
	for i := len(overlay.Namespaces) - 1; i >= 0; i-- {
		if v, ok := c.ns[overlay.Namespaces[i]].Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

// GetSingle looks key up in the context's own namespace only.
func (c *Context) GetSingle(key string) (any, bool) {
	own := c.Own()
	if own == nil {
		return nil, false
	}
	return own.Get(key)
}

// GetString returns Get(key) rendered as a string, or "" when absent or null.
func (c *Context) GetString(key string) string {
	v, ok := c.Get(key)
	if !ok {
		return ""
	}
	return scalarString(v)
}

// GetSingleString is GetString restricted to the own namespace.
func (c *Context) GetSingleString(key string) string {
	v, ok := c.GetSingle(key)
	if !ok {
		return ""
	}
	return scalarString(v)
}

// Set stores a value in the context's own namespace.
func (c *Context) Set(key string, value any) error {
	own := c.Own()
	if own == nil {
		return configErrorf(c, "set", "context has no own namespace for %q", key)
	}
	if !overlay.IsKnownKey(key) {
		return configErrorf(c, "set", "unknown key %q", key)
	}
	own.Set(key, value)
	return nil
}

// Name is the effective display name.
func (c *Context) Name() string {
	if name := c.GetString("name"); name != "" {
		return name
	}
	return filepath.Base(c.path)
}

// Prefix is the part of the name before " - ", or the whole name.
func (c *Context) Prefix() string {
	prefix, _ := textutil.SplitPrefix(c.Name())
	return prefix
}

// NameNoPrefix is the part of the name after " - ", or the whole name.
func (c *Context) NameNoPrefix() string {
	_, rest := textutil.SplitPrefix(c.Name())
	return rest
}

// SearchableName is NameNoPrefix reduced to plain letters, digits and spaces.
func (c *Context) SearchableName() string {
	return textutil.Searchable(c.NameNoPrefix())
}

// SeriesName returns the prefix-stripped name of the enclosing series, or ""
// when the context is not inside one.
func (c *Context) SeriesName() string {
	v, ok := c.ns[overlay.Series].Get("name")
	if !ok || v == nil {
		return ""
	}
	_, rest := textutil.SplitPrefix(scalarString(v))
	return rest
}

// IsInSeries reports whether any ancestor (inclusive) is a series.
func (c *Context) IsInSeries() bool {
	return c.Series() != nil
}

// Series returns the nearest ancestor (inclusive) of kind series.
func (c *Context) Series() *Context {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.kind == KindSeries {
			return cur
		}
	}
	return nil
}

// SeasonNumber returns the effective season number when one is configured.
func (c *Context) SeasonNumber() (int, bool) {
	v, ok := c.Get("season")
	if !ok {
		return 0, false
	}
	return intValue(v)
}

// CatalogID returns the effective identifier for a catalog key. A key that is
// present but null reports ok with an empty id.
func (c *Context) CatalogID(key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	return scalarString(v), true
}

// Metadata returns the effective www_metadata dictionary.
func (c *Context) Metadata() *overlay.Map {
	return mapValue(c.Get("www_metadata"))
}

// OwnMetadata returns www_metadata from the own namespace only.
func (c *Context) OwnMetadata() *overlay.Map {
	return mapValue(c.GetSingle("www_metadata"))
}

// Preferences returns the effective metadata_preferences dictionary.
func (c *Context) Preferences() *overlay.Map {
	return mapValue(c.Get("metadata_preferences"))
}

// IDKeys lists the catalogs this context should be identified in.
func (c *Context) IDKeys() []string { return c.kind.IDKeys() }

// ExpectedArt lists the art resources this context should carry.
func (c *Context) ExpectedArt() []string { return c.kind.ExpectedArt() }

// Logger returns the traversal logger annotated with this context.
func (c *Context) Logger() *slog.Logger {
	return c.opts.logger().With(
		logging.String(logging.FieldContext, c.path),
		logging.String(logging.FieldKind, string(c.kind)),
	)
}

func (c *Context) String() string {
	return fmt.Sprintf("%s<%s>", c.kind.Label(), c.path)
}

func mapValue(v any, ok bool) *overlay.Map {
	if !ok {
		return overlay.NewMap()
	}
	if m, isMap := v.(*overlay.Map); isMap && m != nil {
		return m
	}
	return overlay.NewMap()
}

// scalarString renders a YAML scalar the way it reads in the document.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

func boolValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		return false
	}
}
