// Package stats reports how densely each column of a dataset is populated.
package stats

import (
	"math"
	"strings"

	"github.com/agentstation/fieldmap/pkg/dataset"
)

// ColumnStats is the population of a single column.
type ColumnStats struct {
	Column     string  `json:"column" yaml:"column"`
	Filled     int     `json:"filled" yaml:"filled"`
	Empty      int     `json:"empty" yaml:"empty"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Report holds per-column statistics in column order.
type Report struct {
	Rows    int           `json:"rows" yaml:"rows"`
	Columns []ColumnStats `json:"columns" yaml:"columns"`
}

// Column returns the statistics for name.
func (r Report) Column(name string) (ColumnStats, bool) {
	for _, c := range r.Columns {
		if c.Column == name {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Compute counts filled cells per column. A cell is filled when it is present
// and not blank after trimming whitespace. With zero rows every column
// reports 0 filled, 0 empty and 0%.
func Compute(ds dataset.Reader) Report {
	rows := ds.Len()
	cols := ds.Columns()

	report := Report{
		Rows:    rows,
		Columns: make([]ColumnStats, 0, len(cols)),
	}

	for _, col := range cols {
		filled := 0
		for i := 0; i < rows; i++ {
			if v, ok := ds.Cell(i, col); ok && strings.TrimSpace(v) != "" {
				filled++
			}
		}
		report.Columns = append(report.Columns, ColumnStats{
			Column:     col,
			Filled:     filled,
			Empty:      rows - filled,
			Percentage: Percentage(filled, rows),
		})
	}
	return report
}

// Percentage returns filled/total*100 rounded half away from zero to one
// decimal place, or 0 when total is 0.
func Percentage(filled, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(filled)/float64(total)*1000) / 10
}
