// Package record models the nested key-value records fieldmap ingests.
//
// A Record keeps its keys in document order. Go maps do not, so every
// constructor that starts from a map sorts keys lexicographically to stay
// deterministic.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

// Field is a single key/value pair of a Record.
// Value is a scalar, a nested Record, or an opaque list.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered mapping from field name to value.
type Record []Field

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r)
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key. When a key repeats, the last
// occurrence wins.
func (r Record) Get(key string) (any, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Key == key {
			return r[i].Value, true
		}
	}
	return nil, false
}

// Set replaces the value of key in place, or appends it.
func (r *Record) Set(key string, value any) {
	for i := len(*r) - 1; i >= 0; i-- {
		if (*r)[i].Key == key {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Field{Key: key, Value: value})
}

// MarshalJSON encodes the record as a JSON object preserving field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// From converts a mapping-shaped value into a Record. It accepts Record,
// map[string]any, map[string]string and yaml.MapSlice, converting nested
// mappings recursively. ok is false when v is not a mapping.
func From(v any) (rec Record, ok bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case *Record:
		if m == nil {
			return nil, false
		}
		return *m, true
	case yaml.MapSlice:
		return fromMapSlice(m), true
	case map[string]any:
		return fromMap(m), true
	case map[string]string:
		generic := make(map[string]any, len(m))
		for k, v := range m {
			generic[k] = v
		}
		return fromMap(generic), true
	default:
		return nil, false
	}
}

// IsMapping reports whether v can be converted by From.
func IsMapping(v any) bool {
	_, ok := From(v)
	return ok
}

func fromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rec := make(Record, 0, len(m))
	for _, k := range keys {
		rec = append(rec, Field{Key: k, Value: normalize(m[k])})
	}
	return rec
}

func fromMapSlice(ms yaml.MapSlice) Record {
	rec := make(Record, 0, len(ms))
	for _, item := range ms {
		rec = append(rec, Field{Key: keyString(item.Key), Value: normalize(item.Value)})
	}
	return rec
}

// normalize turns nested mappings into Records; lists keep their shape with
// their elements normalized.
func normalize(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice, map[string]any, map[string]string:
		rec, _ := From(val)
		return rec
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	if k == nil {
		return "null"
	}
	return fmt.Sprint(k)
}
