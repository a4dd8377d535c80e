package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap/internal/cmd/globals"
	"github.com/agentstation/fieldmap/internal/cmd/output"
)

// Execute runs the fieldmap CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fieldmap",
		Short:   "Map nested records onto tabular datasets",
		Version: a.version,
		Long: `Fieldmap writes extracted records into the matching row of a dataset.

Each record is flattened into path-joined keys, every key is matched to a
dataset column by a ranked list of strategies (exact, suffix, separator and
case insensitive, token overlap), and the values are written into the row
whose key column equals the record's key.

Datasets can be CSV, TSV, XLSX files or tables in a SQLite database
(sqlite://path.db?table=name).`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands:",
	})

	globals.AddFlags(rootCmd)
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.fieldmap.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("fieldmap {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfigFile(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	flags, err := globals.Parse(cmd)
	if err != nil {
		return err
	}
	a.config.UpdateFromFlags(flags.Verbose, flags.Quiet, flags.NoColor, flags.Output, mustGetString(cmd, "log-level"))

	if a.config.Format != "" {
		if _, err := output.ParseFormat(a.config.Format); err != nil {
			return err
		}
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
