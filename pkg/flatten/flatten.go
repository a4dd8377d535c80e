// Package flatten turns nested records into single-level path -> string maps.
package flatten

import (
	"strconv"

	"github.com/agentstation/fieldmap/pkg/constants"
	"github.com/agentstation/fieldmap/pkg/record"
)

// Option configures Flatten.
type Option func(*options)

type options struct {
	separator   string
	parent      string
	expandLists bool
}

func defaultOptions() *options {
	return &options{separator: constants.DefaultSeparator}
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSeparator sets the string joining path segments. Empty keeps the default.
func WithSeparator(sep string) Option {
	return func(o *options) {
		if sep != "" {
			o.separator = sep
		}
	}
}

// WithParent prefixes every produced path with parent.
func WithParent(parent string) Option {
	return func(o *options) {
		o.parent = parent
	}
}

// WithListExpansion flattens lists element-wise using the element index as a
// path segment. Without it a list is stored as its JSON encoding.
func WithListExpansion() Option {
	return func(o *options) {
		o.expandLists = true
	}
}

// Flatten collapses rec into an ordered map. Nested records contribute
// parent+sep+key paths; later paths overwrite earlier equal ones.
func Flatten(rec record.Record, opts ...Option) *Map {
	o := defaultOptions().apply(opts...)
	out := NewMap()
	o.flattenRecord(out, o.parent, rec)
	return out
}

func (o *options) join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + o.separator + key
}

func (o *options) flattenRecord(out *Map, parent string, rec record.Record) {
	for _, f := range rec {
		o.flattenValue(out, o.join(parent, f.Key), f.Value)
	}
}

func (o *options) flattenValue(out *Map, path string, v any) {
	if nested, ok := record.From(v); ok {
		o.flattenRecord(out, path, nested)
		return
	}

	if o.expandLists {
		if list, ok := v.([]any); ok {
			for i, elem := range list {
				o.flattenValue(out, o.join(path, strconv.Itoa(i)), elem)
			}
			return
		}
	}

	out.Set(path, record.Render(v))
}
