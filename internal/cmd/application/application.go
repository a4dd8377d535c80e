// Package application provides the application interface for fieldmap commands.
//
// Commands accept the Application interface rather than the concrete App type
// from cmd/fieldmap/app, so they can be tested against Mock.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            table, err := app.LoadDataset(cmd.Context(), args[0])
//	            if err != nil {
//	                return err
//	            }
//	            // ... use table
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/pkg/dataset"
)

// Application provides what commands need from the running CLI.
type Application interface {
	// LoadDataset reads the dataset at location with the configured codec
	// options; opts are applied after them.
	LoadDataset(ctx context.Context, location string, opts ...dataset.Option) (*dataset.Table, error)

	// SaveDataset writes t to location.
	SaveDataset(ctx context.Context, t *dataset.Table, location string, opts ...dataset.Option) error

	// MapperOptions returns the mapper options derived from configuration.
	// Command flags are appended after them and so take precedence.
	MapperOptions() []fieldmap.Option

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
