package flatten

import (
	"bytes"
	"encoding/json"
)

// Map is an ordered path -> string map.
// Setting an existing path overwrites its value and keeps its first position.
type Map struct {
	keys  []string
	index map[string]int
	vals  []string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Set stores value under path.
func (m *Map) Set(path, value string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[path]; ok {
		m.vals[i] = value
		return
	}
	m.index[path] = len(m.keys)
	m.keys = append(m.keys, path)
	m.vals = append(m.vals, value)
}

// Get returns the value stored under path.
func (m *Map) Get(path string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.index[path]
	if !ok {
		return "", false
	}
	return m.vals[i], true
}

// Has reports whether path is present.
func (m *Map) Has(path string) bool {
	_, ok := m.Get(path)
	return ok
}

// Len returns the number of paths.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the paths in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in order.
func (m *Map) Each(fn func(path, value string)) {
	if m == nil {
		return
	}
	for i, k := range m.keys {
		fn(k, m.vals[i])
	}
}

// Merge copies every entry of other into m, later values overwriting earlier ones.
func (m *Map) Merge(other *Map) {
	other.Each(m.Set)
}

// ToMap returns an unordered copy.
func (m *Map) ToMap() map[string]string {
	out := make(map[string]string, m.Len())
	m.Each(func(k, v string) { out[k] = v })
	return out
}

// MarshalJSON encodes the map as an object preserving order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
