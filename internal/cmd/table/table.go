// Package table converts fieldmap results into rows for table output.
package table

import (
	"fmt"
	"strconv"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/pkg/flatten"
	"github.com/agentstation/fieldmap/pkg/reconcile"
	"github.com/agentstation/fieldmap/pkg/stats"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Placeholder fills cells that have no value.
const Placeholder = "-"

// TraceToTableData converts a reconciliation trace to table format.
func TraceToTableData(trace reconcile.Trace) Data {
	rows := make([][]string, 0, len(trace))
	for _, e := range trace {
		column, strategy := Placeholder, Placeholder
		if e.Matched() {
			column = e.Column
			strategy = e.Strategy.Name()
		}
		status := "written"
		switch {
		case !e.Matched():
			status = "unmatched"
		case e.Dropped:
			status = "dropped (empty)"
		}
		rows = append(rows, []string{e.Field, Truncate(e.Value, 40), column, strategy, status})
	}
	return Data{
		Headers: []string{"Field", "Value", "Column", "Strategy", "Status"},
		Rows:    rows,
	}
}

// StatsToTableData converts population statistics to table format.
func StatsToTableData(report stats.Report) Data {
	rows := make([][]string, 0, len(report.Columns))
	for _, c := range report.Columns {
		rows = append(rows, []string{
			c.Column,
			strconv.Itoa(c.Filled),
			strconv.Itoa(c.Empty),
			FormatPercent(c.Percentage),
		})
	}
	return Data{
		Headers:         []string{"Column", "Filled", "Empty", "Populated"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight},
	}
}

// OutcomesToTableData converts insertion outcomes to table format.
func OutcomesToTableData(outcomes []fieldmap.Outcome) Data {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := "ok"
		if !o.Success {
			status = o.ErrorKind
		}
		row := Placeholder
		if o.RowIndex > 0 {
			row = strconv.Itoa(o.RowIndex)
		}
		key := o.RowKey
		if key == "" {
			key = Placeholder
		}
		rows = append(rows, []string{
			key,
			row,
			status,
			strconv.Itoa(o.FieldsMapped),
			strconv.Itoa(o.FieldsWritten),
			Truncate(o.Message, 60),
		})
	}
	return Data{
		Headers:         []string{"Row Key", "Row", "Status", "Mapped", "Written", "Message"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
}

// PreviewToTableData converts the populated cells of a row to table format.
func PreviewToTableData(cells *flatten.Map) Data {
	rows := make([][]string, 0, cells.Len())
	cells.Each(func(column, value string) {
		rows = append(rows, []string{column, value})
	})
	return Data{
		Headers: []string{"Column", "Value"},
		Rows:    rows,
	}
}

// ColumnsToTableData lists columns with their 1-based position.
func ColumnsToTableData(columns []string) Data {
	rows := make([][]string, 0, len(columns))
	for i, c := range columns {
		rows = append(rows, []string{strconv.Itoa(i + 1), c})
	}
	return Data{
		Headers:         []string{"#", "Column"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft},
	}
}

// FormatPercent formats a percentage with one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
