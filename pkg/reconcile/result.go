package reconcile

import (
	"github.com/agentstation/fieldmap/pkg/flatten"
)

// Values is the ordered column -> value outcome of a reconciliation.
// Writing a column twice keeps its first position and the last value.
type Values struct {
	flatten.Map
}

// NewValues returns an empty Values.
func NewValues() *Values {
	return &Values{Map: *flatten.NewMap()}
}

// Columns returns the matched column names in order.
func (v *Values) Columns() []string {
	return v.Keys()
}

// TraceEntry records what happened to one flattened field.
type TraceEntry struct {
	Field    string       `json:"field" yaml:"field"`
	Value    string       `json:"value" yaml:"value"`
	Column   string       `json:"column,omitempty" yaml:"column,omitempty"`
	Strategy StrategyType `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Dropped  bool         `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

// Matched reports whether a strategy placed the field.
func (e TraceEntry) Matched() bool {
	return e.Strategy != StrategyTypeNone
}

// Written reports whether the field contributed a value.
func (e TraceEntry) Written() bool {
	return e.Matched() && !e.Dropped
}

// Trace lists one entry per flattened field, in input order.
type Trace []TraceEntry

// Result represents the outcome of a reconciliation.
type Result struct {
	Values *Values
	Trace  Trace
}

// Matched returns the entries whose value was written to a column.
func (r *Result) Matched() Trace {
	var out Trace
	for _, e := range r.Trace {
		if e.Written() {
			out = append(out, e)
		}
	}
	return out
}

// Unmatched returns the entries no strategy could place.
func (r *Result) Unmatched() Trace {
	var out Trace
	for _, e := range r.Trace {
		if !e.Matched() {
			out = append(out, e)
		}
	}
	return out
}

// Dropped returns the entries that matched but carried an empty value.
func (r *Result) Dropped() Trace {
	var out Trace
	for _, e := range r.Trace {
		if e.Matched() && e.Dropped {
			out = append(out, e)
		}
	}
	return out
}

// CountByStrategy returns how many written fields each strategy placed.
func (r *Result) CountByStrategy() map[StrategyType]int {
	counts := make(map[StrategyType]int)
	for _, e := range r.Matched() {
		counts[e.Strategy]++
	}
	return counts
}
