// Package reconcile decides which destination column each flattened field
// belongs to.
//
// Fields are tried against an ordered cascade of strategies, strictest first:
// exact, suffix, separator-insensitive, case-insensitive, case-insensitive
// suffix and finally token overlap. The first strategy yielding a column wins
// and strategies are never combined or scored. Within a strategy the first
// qualifying column in ColumnSet order wins.
package reconcile

import (
	"github.com/agentstation/fieldmap/pkg/flatten"
)

// Reconciler maps flattened fields onto columns.
// A Reconciler holds no mutable state; it is safe for concurrent use when
// its Reporter is.
type Reconciler struct {
	separator  string
	strategies []Strategy
	reporter   Reporter
}

// New creates a new Reconciler with options.
func New(opts ...Option) (*Reconciler, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{
		separator:  o.separator,
		strategies: o.strategies,
		reporter:   o.reporter,
	}, nil
}

// Separator returns the path separator in use.
func (r *Reconciler) Separator() string {
	return r.separator
}

// Strategies returns the cascade in priority order.
func (r *Reconciler) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Match runs the cascade for a single field.
func (r *Reconciler) Match(field string, columns ColumnSet) (string, StrategyType, bool) {
	for _, s := range r.strategies {
		if col, ok := s.Match(field, columns); ok {
			return col, s.Type(), true
		}
	}
	return "", StrategyTypeNone, false
}

// Reconcile maps every field onto at most one column. A field contributes
// only when a column was found and its value is non-empty; later fields
// overwrite earlier ones mapped to the same column.
func (r *Reconciler) Reconcile(fields *flatten.Map, columns ColumnSet) *Result {
	res := &Result{
		Values: NewValues(),
		Trace:  make(Trace, 0, fields.Len()),
	}

	fields.Each(func(field, value string) {
		entry := TraceEntry{Field: field, Value: value}

		col, typ, ok := r.Match(field, columns)
		if ok {
			entry.Column = col
			entry.Strategy = typ
			if value == "" {
				entry.Dropped = true
			} else {
				res.Values.Set(col, value)
				r.reporter.Mapped(field, col, typ)
			}
		}

		res.Trace = append(res.Trace, entry)
	})

	return res
}
