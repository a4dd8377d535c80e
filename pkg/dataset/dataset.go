// Package dataset provides the tabular destination fieldmap writes into: an
// in-memory Table and codecs that load and save it as CSV, XLSX or SQLite.
package dataset

import (
	"fmt"
	"strings"

	"github.com/agentstation/fieldmap/pkg/errors"
)

// Reader is read-only row/column access to a dataset.
type Reader interface {
	// Columns returns the column names in order.
	Columns() []string
	// Len returns the number of data rows.
	Len() int
	// Cell returns the value at row (0-based) and column. ok is false for a
	// missing cell, which is distinct from an empty-string cell.
	Cell(row int, column string) (value string, ok bool)
}

// Dataset is a Reader that can also write cells.
type Dataset interface {
	Reader
	// SetCell stores value at row (0-based) and column. It should not fail
	// for a row in [0, Len()) and a column from Columns().
	SetCell(row int, column string, value string) error
}

// Clearer is implemented by datasets that can make a cell missing again.
type Clearer interface {
	ClearCell(row int, column string) error
}

type cell struct {
	value string
	set   bool
}

// Table is an in-memory Dataset.
// A Table is not safe for concurrent use.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]cell
}

var _ Dataset = (*Table)(nil)

// NewTable creates an empty table with the given columns.
// Column names must be unique.
func NewTable(columns ...string) (*Table, error) {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(t.columns, columns)
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, errors.NewValidationError("columns", c, fmt.Sprintf("duplicate column %q", c))
		}
		t.index[c] = i
	}
	return t, nil
}

// Columns returns a copy of the column names.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Cell returns the value at row and column.
func (t *Table) Cell(row int, column string) (string, bool) {
	ci, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	c := t.rows[row][ci]
	return c.value, c.set
}

// SetCell stores value at row and column.
func (t *Table) SetCell(row int, column string, value string) error {
	ci, ok := t.index[column]
	if !ok {
		return errors.NewColumnNotFoundError(column)
	}
	if row < 0 || row >= len(t.rows) {
		return errors.NewValidationError("row", row, fmt.Sprintf("index out of range [0,%d)", len(t.rows)))
	}
	t.rows[row][ci] = cell{value: value, set: true}
	return nil
}

// ClearCell marks a cell as missing.
func (t *Table) ClearCell(row int, column string) error {
	ci, ok := t.index[column]
	if !ok {
		return errors.NewColumnNotFoundError(column)
	}
	if row < 0 || row >= len(t.rows) {
		return errors.NewValidationError("row", row, fmt.Sprintf("index out of range [0,%d)", len(t.rows)))
	}
	t.rows[row][ci] = cell{}
	return nil
}

// AppendRow adds a row. Values fill columns in order; columns past the end
// of values stay missing, and so do empty values.
func (t *Table) AppendRow(values ...string) error {
	if len(values) > len(t.columns) {
		return errors.NewValidationError("row", len(values),
			fmt.Sprintf("row has %d values but table has %d columns", len(values), len(t.columns)))
	}
	row := make([]cell, len(t.columns))
	for i, v := range values {
		if v != "" {
			row[i] = cell{value: v, set: true}
		}
	}
	t.rows = append(t.rows, row)
	return nil
}

// Row returns the cells of a row in column order, missing cells as "".
func (t *Table) Row(row int) []string {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	out := make([]string, len(t.columns))
	for i, c := range t.rows[row] {
		out[i] = c.value
	}
	return out
}

// Find returns the first row whose column equals key exactly.
func Find(r Reader, column, key string) (int, bool) {
	for i := 0; i < r.Len(); i++ {
		if v, ok := r.Cell(i, column); ok && v == key {
			return i, true
		}
	}
	return -1, false
}

// Populated returns the non-blank cells of a row in column order.
func Populated(r Reader, row int) ([]string, []string) {
	var cols, vals []string
	for _, c := range r.Columns() {
		v, ok := r.Cell(row, c)
		if ok && strings.TrimSpace(v) != "" {
			cols = append(cols, c)
			vals = append(vals, v)
		}
	}
	return cols, vals
}
