// Package preview provides the command that prints the populated cells of
// one dataset row.
package preview

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/internal/cmd/cmdutil"
	"github.com/agentstation/fieldmap/internal/cmd/globals"
	"github.com/agentstation/fieldmap/internal/cmd/table"
)

// NewCommand creates the preview command.
func NewCommand(app application.Application) *cobra.Command {
	var flags *globals.MappingFlags

	cmd := &cobra.Command{
		Use:     "preview <dataset> <row-key>",
		GroupID: "inspect",
		Short:   "Show the populated cells of a row",
		Example: `  fieldmap preview studies.xlsx Smith2020
  fieldmap preview studies.csv S-042 --key-column Study -o yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := cmdutil.OpenMapper(cmd.Context(), app, args[0], flags)
			if err != nil {
				return err
			}

			cells, err := m.Preview(args[1])
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, table.PreviewToTableData(cells), cells)
		},
	}

	flags = globals.AddMappingFlags(cmd)

	return cmd
}
