package data

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/mohae/deepcopy"
	"gopkg.in/yaml.v3"
)

// Map is a string keyed mapping that remembers insertion order. Decoded YAML
// mappings are represented as *Map so iteration follows the document.
type Map struct {
	keys   []string
	values map[string]any
}

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// MapOf builds a Map from alternating key/value arguments. Keys must be
// strings; it panics otherwise. Intended for tests and generator helpers.
func MapOf(pairs ...any) *Map {
	if len(pairs)%2 != 0 {
		panic("data: MapOf requires key/value pairs")
	}
	m := NewMap()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("data: MapOf keys must be strings")
		}
		m.Set(key, pairs[i+1])
	}
	return m
}

// FromMap converts a Go map into a Map with keys in sorted order. Nested
// map[string]any values are converted as well.
func FromMap(in map[string]any) *Map {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	m := NewMap()
	for _, key := range keys {
		m.Set(key, normalize(in[key]))
	}
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	value, ok := m.values[key]
	return value, ok
}

// Value returns the value stored under key or nil.
func (m *Map) Value(key string) any {
	value, _ := m.Get(key)
	return value
}

// Set stores value under key. New keys are appended; existing keys keep their
// position.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key from the map.
func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, exists := m.values[key]; !exists {
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

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Entries returns the key/value pairs in order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, 0, len(m.keys))
	for _, key := range m.keys {
		out = append(out, Entry{Key: key, Value: m.values[key]})
	}
	return out
}

// Range calls fn for every entry in order until fn returns false.
func (m *Map) Range(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	for _, key := range m.Keys() {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := &Map{
		keys:   append([]string(nil), m.keys...),
		values: make(map[string]any, len(m.values)),
	}
	for key, value := range m.values {
		out.values[key] = Clone(value)
	}
	return out
}

// DeepCopy satisfies deepcopy.Interface so maps nested in arbitrary values are
// copied with their ordering intact.
func (m *Map) DeepCopy() interface{} {
	return m.Clone()
}

// String renders the map as JSON.
func (m *Map) String() string {
	b, err := m.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalJSON encodes the map as a JSON object in key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a YAML mapping in key order.
func (m *Map) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range m.Keys() {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(m.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// Clone deep copies a tree value. Go maps with string keys are converted into
// *Map on the way.
func Clone(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case *Map:
		return v.Clone()
	case map[string]any:
		return FromMap(v).Clone()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	case string, bool, int, int64, float64:
		return v
	default:
		return deepcopy.Copy(v)
	}
}

func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return FromMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
