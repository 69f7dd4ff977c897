package library

import (
	"path/filepath"

	"mediamirror/internal/overlay"
)

var episodeOverrideFields = map[string]struct{}{
	"index":   {},
	"title":   {},
	"summary": {},
	"airdate": {},
}

var preferenceFields = map[string]struct{}{
	"disable_episodes": {},
	"episodes":         {},
}

// Overlay derives the child context for dir by merging doc's blocks into
// copies of the parent's namespaces. The child is validated before it is
// returned unless the document marks the directory ignored.
func Overlay(parent *Context, dir string, doc *overlay.Document) (*Context, error) {
	child := &Context{
		path:   filepath.Clean(dir),
		parent: parent,
		opts:   parent.opts,
		ns:     make(map[string]*overlay.Map, len(overlay.Namespaces)),
	}
	for _, name := range overlay.Namespaces {
		child.ns[name] = parent.Namespace(name).Clone()
	}
	base := filepath.Base(child.path)
	for _, name := range overlay.Namespaces {
		block := doc.Block(name)
		if block == nil {
			continue
		}
		target := child.ns[name]
		target.Merge(block)
		if v, ok := block.Get("name"); !ok || v == nil {
			target.Set("name", base)
		} else if _, isString := v.(string); !isString {
			target.Set("name", scalarString(v))
		}
		child.kind = Kind(name)
		child.declared = append(child.declared, name)
	}
	if doc.Ignore {
		child.kind = KindIgnore
		return child, nil
	}
	if child.kind == KindNone {
		return nil, configErrorf(child, "overlay", "%s declares no namespace block", overlay.FileName)
	}
	if err := child.validate(); err != nil {
		return nil, err
	}
	return child, nil
}

func (c *Context) validate() error {
	for _, name := range overlay.Namespaces {
		m := c.ns[name]
		for _, key := range m.Keys() {
			if !overlay.IsKnownKey(key) {
				return configErrorf(c, "overlay", "unknown key %q in %s block", key, name)
			}
			v, _ := m.Get(key)
			if err := c.validateValue(name, key, v); err != nil {
				return err
			}
		}
	}

	media, err := c.MediaFilenames()
	if err != nil {
		return err
	}
	switch c.kind {
	case KindSeries:
		if len(media) > 0 {
			return validationErrorf(c, "overlay", "series directory must not contain media files, found %q", media)
		}
	case KindSoundtrack:
	default:
		if len(media) == 0 {
			return validationErrorf(c, "overlay", "%s directory contains no media files", c.kind)
		}
	}
	switch c.kind {
	case KindMovie:
		if _, err := c.MovieFilename(); err != nil {
			return err
		}
	case KindSeason, KindOVA:
		if _, err := ResolveEpisodes(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) validateValue(namespace, key string, v any) error {
	bad := func(want string) error {
		return configErrorf(c, "overlay", "%s.%s must be %s, got %T", namespace, key, want, v)
	}
	switch key {
	case "name", "moviefilename":
		if _, ok := v.(string); !ok {
			return bad("a string")
		}
	case ArtBackground, ArtBanner, ArtPoster, KeyIMDB:
		if _, ok := v.(string); !ok && v != nil {
			return bad("a string or null")
		}
	case KeyAniDB, KeyMAL, KeyTVDB, KeyHummingBird, KeyTMDB:
		switch v.(type) {
		case nil, string, int, int64, uint64:
		default:
			return bad("an id or null")
		}
	case "season":
		if _, ok := intValue(v); !ok {
			return bad("an integer")
		}
	case "override_epregex":
		s, ok := v.(string)
		if !ok {
			return bad("a string")
		}
		re, err := compileUserPattern(s)
		if err != nil {
			return configErrorf(c, "overlay", "override_epregex %q: %v", s, err)
		}
		if captureCount(re) < 1 {
			return configErrorf(c, "overlay", "override_epregex %q has no capture group", s)
		}
	case "override_epdata":
		overrides, ok := v.(*overlay.Map)
		if !ok {
			return bad("a mapping")
		}
		for _, pattern := range overrides.Keys() {
			entryValue, _ := overrides.Get(pattern)
			entry, ok := entryValue.(*overlay.Map)
			if !ok {
				return configErrorf(c, "overlay", "override_epdata[%q] must be a mapping", pattern)
			}
			for _, field := range entry.Keys() {
				if _, known := episodeOverrideFields[field]; known {
					continue
				}
				if isSubseriesKey(field) {
					continue
				}
				return configErrorf(c, "overlay", "override_epdata[%q] has unknown field %q", pattern, field)
			}
		}
	case "www_metadata":
		meta, ok := v.(*overlay.Map)
		if !ok {
			if v == nil {
				return nil
			}
			return bad("a mapping")
		}
		if n, present := meta.Get("episodes"); present && n != nil {
			if _, ok := intValue(n); !ok {
				return configErrorf(c, "overlay", "%s.www_metadata.episodes must be an integer", namespace)
			}
		}
		if epdata, present := meta.Get("epdata"); present && epdata != nil {
			if _, ok := epdata.(*overlay.Map); !ok {
				return configErrorf(c, "overlay", "%s.www_metadata.epdata must be a mapping", namespace)
			}
		}
	case "metadata_preferences":
		prefs, ok := v.(*overlay.Map)
		if !ok {
			return bad("a mapping")
		}
		for _, field := range prefs.Keys() {
			if _, known := preferenceFields[field]; !known {
				return configErrorf(c, "overlay", "metadata_preferences has unknown field %q", field)
			}
		}
		if n, present := prefs.Get("episodes"); present {
			if _, ok := intValue(n); !ok {
				return configErrorf(c, "overlay", "metadata_preferences.episodes must be an integer")
			}
		}
	}
	return nil
}

func isSubseriesKey(key string) bool {
	for _, candidate := range SubseriesKeys {
		if candidate == key {
			return true
		}
	}
	return false
}
