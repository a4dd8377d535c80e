// Package mapping provides the command that shows how record fields map to
// dataset columns without writing anything.
package mapping

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/internal/cmd/cmdutil"
	"github.com/agentstation/fieldmap/internal/cmd/globals"
	"github.com/agentstation/fieldmap/internal/cmd/table"
	"github.com/agentstation/fieldmap/pkg/reconcile"
)

// Mapping is the reconciliation of one record.
type Mapping struct {
	Values *reconcile.Values `json:"values" yaml:"values"`
	Trace  reconcile.Trace   `json:"trace" yaml:"trace"`
}

// NewCommand creates the map command.
func NewCommand(app application.Application) *cobra.Command {
	var flags *globals.MappingFlags

	cmd := &cobra.Command{
		Use:     "map <dataset> [record-file|-]",
		GroupID: "core",
		Short:   "Show how record fields map to dataset columns",
		Long: `Map flattens each record and reconciles its fields against the dataset
columns, printing which column and strategy every field resolved to.
Nothing is written; use it to check a record before running insert.`,
		Example: `  fieldmap map studies.xlsx extraction.json
  fieldmap map studies.csv record.yaml --no-token-overlap -o yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := cmdutil.StdinArg
			if len(args) == 2 {
				source = args[1]
			}

			m, _, err := cmdutil.OpenMapper(cmd.Context(), app, args[0], flags)
			if err != nil {
				return err
			}

			records, err := cmdutil.ReadRecords(cmd, source)
			if err != nil {
				return err
			}

			mappings := make([]Mapping, 0, len(records))
			var trace reconcile.Trace
			for i, rec := range records {
				res, err := m.Map(rec)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				mappings = append(mappings, Mapping{Values: res.Values, Trace: res.Trace})
				trace = append(trace, res.Trace...)
			}

			var raw any = mappings
			if len(mappings) == 1 {
				raw = mappings[0]
			}
			return cmdutil.Render(cmd, app, table.TraceToTableData(trace), raw)
		},
	}

	flags = globals.AddMappingFlags(cmd)

	return cmd
}
