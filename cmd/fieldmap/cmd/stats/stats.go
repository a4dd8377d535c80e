// Package stats provides the command that reports how populated each
// dataset column is.
package stats

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/internal/cmd/cmdutil"
	"github.com/agentstation/fieldmap/internal/cmd/globals"
	"github.com/agentstation/fieldmap/internal/cmd/table"
	"github.com/agentstation/fieldmap/internal/matcher"
	datastats "github.com/agentstation/fieldmap/pkg/stats"
)

// NewCommand creates the stats command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		flags           *globals.MappingFlags
		columns         []string
		caseInsensitive bool
	)

	cmd := &cobra.Command{
		Use:     "stats <dataset>",
		GroupID: "inspect",
		Short:   "Show per-column population statistics",
		Long: `Stats counts, for every column, how many rows hold a non-empty value and
reports the populated percentage rounded to one decimal place.`,
		Example: `  fieldmap stats studies.xlsx
  fieldmap stats studies.csv --columns 'patient_*' --columns '^age$'
  fieldmap stats sqlite://studies.db -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []matcher.Option
			if caseInsensitive {
				opts = append(opts, matcher.WithCaseInsensitive())
			}
			filter, err := matcher.NewAny(columns, opts...)
			if err != nil {
				return err
			}

			tbl, err := app.LoadDataset(cmd.Context(), args[0], flags.DatasetOptions()...)
			if err != nil {
				return err
			}

			report := Filter(datastats.Compute(tbl), filter)
			return cmdutil.Render(cmd, app, table.StatsToTableData(report), report)
		},
	}

	flags = globals.AddDatasetFlags(cmd)
	cmd.Flags().StringArrayVar(&columns, "columns", nil,
		"Only report columns matching this glob or regex (repeatable)")
	cmd.Flags().BoolVarP(&caseInsensitive, "ignore-case", "i", false,
		"Match --columns patterns without regard to case")

	return cmd
}

// Filter keeps the columns of report matched by filter.
func Filter(report datastats.Report, filter matcher.Any) datastats.Report {
	if len(filter) == 0 {
		return report
	}
	out := datastats.Report{Rows: report.Rows, Columns: []datastats.ColumnStats{}}
	for _, c := range report.Columns {
		if filter.Match(c.Column) {
			out.Columns = append(out.Columns, c)
		}
	}
	return out
}
