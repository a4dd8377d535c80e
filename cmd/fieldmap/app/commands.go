package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap/cmd/fieldmap/cmd/columns"
	"github.com/agentstation/fieldmap/cmd/fieldmap/cmd/completion"
	"github.com/agentstation/fieldmap/cmd/fieldmap/cmd/insert"
	"github.com/agentstation/fieldmap/cmd/fieldmap/cmd/mapping"
	"github.com/agentstation/fieldmap/cmd/fieldmap/cmd/preview"
	"github.com/agentstation/fieldmap/cmd/fieldmap/cmd/stats"
	"github.com/agentstation/fieldmap/cmd/fieldmap/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(insert.NewCommand(a))
	rootCmd.AddCommand(mapping.NewCommand(a))

	// Inspection commands
	rootCmd.AddCommand(stats.NewCommand(a))
	rootCmd.AddCommand(preview.NewCommand(a))
	rootCmd.AddCommand(columns.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())
}
