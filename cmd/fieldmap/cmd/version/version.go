// Package version provides the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/internal/cmd/cmdutil"
	"github.com/agentstation/fieldmap/internal/cmd/globals"
	"github.com/agentstation/fieldmap/internal/cmd/output"
)

// Info is the build information printed by the command.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version: app.Version(),
				Commit:  app.Commit(),
				Date:    app.Date(),
				BuiltBy: app.BuiltBy(),
			}

			format, err := cmdutil.Format(cmd, app)
			if err != nil {
				return err
			}
			if !output.IsTabular(format) {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "fieldmap %s\n", info.Version)
			if flags, _ := globals.Parse(cmd); flags != nil && flags.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
				fmt.Fprintf(w, "  built:    %s\n", info.Date)
				fmt.Fprintf(w, "  built by: %s\n", info.BuiltBy)
			}
			return nil
		},
	}
}
