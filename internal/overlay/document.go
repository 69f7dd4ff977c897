package overlay

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the per-directory overlay document.
	FileName = ".info"
	// RootMarkerName is the file whose content names the reflected root.
	RootMarkerName = ".root"
)

// Namespace names, in increasing specificity.
const (
	Series     = "series"
	Season     = "season"
	Movie      = "movie"
	OVA        = "ova"
	Soundtrack = "soundtrack"
	// Ignore is a marker block rather than a namespace.
	Ignore = "ignore"
)

// Namespaces lists the namespace blocks in increasing specificity.
var Namespaces = []string{Series, Season, Movie, OVA, Soundtrack}

// KnownKeys is the whitelist of keys accepted inside any namespace block.
var KnownKeys = map[string]struct{}{
	"name":                 {},
	"background":           {},
	"banner":               {},
	"poster":               {},
	"anidb":                {},
	"mal":                  {},
	"tvdb":                 {},
	"imdb":                 {},
	"hummingbird":          {},
	"tmdb":                 {},
	"season":               {},
	"moviefilename":        {},
	"override_epdata":      {},
	"override_epregex":     {},
	"www_metadata":         {},
	"metadata_preferences": {},
}

// IsKnownKey reports whether key may appear in a namespace block.
func IsKnownKey(key string) bool {
	_, ok := KnownKeys[key]
	return ok
}

// ErrMalformed marks documents that cannot be parsed into namespace blocks.
var ErrMalformed = errors.New("malformed overlay document")

// Document is the parsed content of one overlay file: zero or one block per
// namespace plus the ignore marker. A nil block means the namespace is absent.
type Document struct {
	blocks map[string]*Map
	Ignore bool
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{blocks: make(map[string]*Map)}
}

// Block returns the block for namespace, or nil when absent.
func (d *Document) Block(namespace string) *Map {
	if d == nil {
		return nil
	}
	return d.blocks[namespace]
}

// SetBlock stores block under namespace; a nil block removes it.
func (d *Document) SetBlock(namespace string, block *Map) {
	if d.blocks == nil {
		d.blocks = make(map[string]*Map)
	}
	if block == nil {
		delete(d.blocks, namespace)
		return
	}
	d.blocks[namespace] = block
}

// Declared returns the namespaces that have a block, in specificity order.
func (d *Document) Declared() []string {
	var out []string
	for _, ns := range Namespaces {
		if d.Block(ns) != nil {
			out = append(out, ns)
		}
	}
	return out
}

// Equal reports whether both documents carry the same blocks and values.
func (d *Document) Equal(other *Document) bool {
	if d.Ignore != other.Ignore {
		return false
	}
	for _, ns := range Namespaces {
		a, b := d.Block(ns), other.Block(ns)
		if (a == nil) != (b == nil) {
			return false
		}
		if a != nil && !Equal(a, b) {
			return false
		}
	}
	return true
}

// Parse decodes an overlay document. Indentation tabs are accepted.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(untabify(data), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc := NewDocument()
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}
	top := root.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return doc, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping of namespace blocks", ErrMalformed)
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		name := key.Value
		switch name {
		case Ignore:
			doc.Ignore = true
		case Series, Season, Movie, OVA, Soundtrack:
			if doc.Block(name) != nil {
				return nil, fmt.Errorf("%w: line %d: duplicate %q block", ErrMalformed, key.Line, name)
			}
			block := NewMap()
			if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
				doc.SetBlock(name, block)
				continue
			}
			if err := value.Decode(block); err != nil {
				return nil, fmt.Errorf("%w: %q block: %v", ErrMalformed, name, err)
			}
			doc.SetBlock(name, block)
		default:
			return nil, fmt.Errorf("%w: line %d: unknown block %q", ErrMalformed, key.Line, name)
		}
	}
	return doc, nil
}

// Marshal encodes the document with tab indentation. Empty blocks are written
// as null so the namespace stays declared.
func Marshal(d *Document) ([]byte, error) {
	top := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, ns := range d.Declared() {
		block := d.Block(ns)
		var value *yaml.Node
		if block.Len() == 0 {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		} else {
			var err error
			if value, err = encodeValue(block); err != nil {
				return nil, fmt.Errorf("encode %q block: %w", ns, err)
			}
		}
		top.Content = append(top.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: ns}, value)
	}
	if d.Ignore {
		top.Content = append(top.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: Ignore},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
	if len(top.Content) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return tabify(buf.Bytes()), nil
}
