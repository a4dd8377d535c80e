// Package columns provides the command that lists dataset columns.
package columns

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/internal/cmd/cmdutil"
	"github.com/agentstation/fieldmap/internal/cmd/globals"
	"github.com/agentstation/fieldmap/internal/cmd/table"
	"github.com/agentstation/fieldmap/internal/matcher"
)

// NewCommand creates the columns command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		flags           *globals.MappingFlags
		filters         []string
		caseInsensitive bool
	)

	cmd := &cobra.Command{
		Use:     "columns <dataset>",
		GroupID: "inspect",
		Short:   "List the columns of a dataset",
		Long: `Columns prints the dataset header in order. These are the names record
fields are reconciled against.`,
		Example: `  fieldmap columns studies.xlsx
  fieldmap columns studies.csv --filter '*_rate'
  fieldmap columns studies.csv --filter '^(age|gender)$' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []matcher.Option
			if caseInsensitive {
				opts = append(opts, matcher.WithCaseInsensitive())
			}
			filter, err := matcher.NewAny(filters, opts...)
			if err != nil {
				return err
			}

			tbl, err := app.LoadDataset(cmd.Context(), args[0], flags.DatasetOptions()...)
			if err != nil {
				return err
			}

			names := filter.Filter(tbl.Columns()...)
			if names == nil {
				names = []string{}
			}
			return cmdutil.Render(cmd, app, table.ColumnsToTableData(names), names)
		},
	}

	flags = globals.AddDatasetFlags(cmd)
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil,
		"Only list columns matching this glob or regex (repeatable)")
	cmd.Flags().BoolVarP(&caseInsensitive, "ignore-case", "i", false,
		"Match filters without regard to case")

	return cmd
}
