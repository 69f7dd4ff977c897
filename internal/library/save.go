package library

import (
	"path/filepath"

	"mediamirror/internal/logging"
	"mediamirror/internal/overlay"
	"mediamirror/internal/services"
)

// Delta returns the document that, overlaid on the parent, reproduces this
// context. Declared blocks are always present; name is omitted when it
// equals the directory's basename.
func (c *Context) Delta() *overlay.Document {
	doc := overlay.NewDocument()
	base := filepath.Base(c.path)
	for _, name := range c.declared {
		current := c.ns[name]
		var inherited *overlay.Map
		if c.parent != nil {
			inherited = c.parent.Namespace(name)
		} else {
			inherited = overlay.NewMap()
		}
		delta := overlay.NewMap()
		for _, key := range current.Keys() {
			v, _ := current.Get(key)
			if key == "name" {
				if v != base {
					delta.Set(key, v)
				}
				continue
			}
			if pv, ok := inherited.Get(key); ok && overlay.Equal(pv, v) {
				continue
			}
			delta.Set(key, overlay.CloneValue(v))
		}
		doc.SetBlock(name, delta)
	}
	doc.Ignore = c.kind == KindIgnore
	return doc
}

// Save writes the context's delta back to its overlay document. The file is
// left untouched when its content is already equivalent.
func (c *Context) Save() (bool, error) {
	doc := c.Delta()
	changed, previous, err := overlay.Write(c.path, doc)
	if err != nil {
		return false, services.Wrap(services.ErrConfiguration, c.String(), "save overlay", "", err)
	}
	if changed {
		data, _ := overlay.Marshal(doc)
		c.Logger().Info("overlay rewritten",
			logging.String(logging.FieldEventType, "overlay_saved"),
			logging.String("previous", string(previous)),
			logging.String("current", string(data)),
		)
	}
	return changed, nil
}
