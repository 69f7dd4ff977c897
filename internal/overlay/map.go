package overlay

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Map is a string-keyed mapping that remembers insertion order. Values are
// YAML scalars (string, int, float64, bool, nil), nested *Map, or []any.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present, even with a nil value.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. Existing keys keep their position.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Merge copies every entry of other into m, overwriting on collision.
func (m *Map) Merge(other *Map) {
	for _, key := range other.Keys() {
		v, _ := other.Get(key)
		m.Set(key, CloneValue(v))
	}
}

// Clone returns a deep copy; mutating the result never affects m.
func (m *Map) Clone() *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	for _, key := range m.keys {
		out.Set(key, CloneValue(m.values[key]))
	}
	return out
}

// CloneValue deep-copies nested maps and sequences.
func CloneValue(v any) any {
	switch val := v.(type) {
	case *Map:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two values are semantically equal. Map key order is
// not significant.
func Equal(a, b any) bool {
	am, aok := a.(*Map)
	bm, bok := b.(*Map)
	if aok || bok {
		if !aok || !bok {
			return false
		}
		if am.Len() != bm.Len() {
			return false
		}
		for _, key := range am.Keys() {
			bv, ok := bm.Get(key)
			if !ok {
				return false
			}
			av, _ := am.Get(key)
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	as, aok := a.([]any)
	bs, bok := b.([]any)
	if aok || bok {
		if !aok || !bok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// UnmarshalYAML decodes a mapping node, preserving key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = *NewMap()
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	v, err := decodeNode(node)
	if err != nil {
		return err
	}
	*m = *v.(*Map)
	return nil
}

// MarshalYAML encodes the map as a mapping node in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	return encodeValue(m)
}

func decodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return decodeNode(node.Content[0])
	case yaml.MappingNode:
		out := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, valueNode := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			if out.Has(key.Value) {
				return nil, fmt.Errorf("line %d: duplicate key %q", key.Line, key.Value)
			}
			value, err := decodeNode(valueNode)
			if err != nil {
				return nil, err
			}
			out.Set(key.Value, value)
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node", node.Line)
	}
}

func encodeValue(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if val == nil {
			return node, nil
		}
		for _, key := range val.keys {
			child, err := encodeValue(val.values[key])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, child)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, err
		}
		return node, nil
	}
}
