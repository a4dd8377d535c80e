// Package cmdutil provides helpers shared by fieldmap commands.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/internal/cmd/globals"
	"github.com/agentstation/fieldmap/internal/cmd/output"
	"github.com/agentstation/fieldmap/pkg/dataset"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/record"
)

// StdinArg names standard input as a record source.
const StdinArg = "-"

// OpenMapper loads the dataset at location and builds a Mapper over it.
// Configured options come first so command flags override them.
func OpenMapper(ctx context.Context, app application.Application, location string, flags *globals.MappingFlags) (*fieldmap.Mapper, *dataset.Table, error) {
	table, err := app.LoadDataset(ctx, location, flags.DatasetOptions()...)
	if err != nil {
		return nil, nil, err
	}

	opts := []fieldmap.Option{fieldmap.WithLogger(app.Logger())}
	opts = append(opts, app.MapperOptions()...)
	opts = append(opts, flags.MapperOptions()...)

	m, err := fieldmap.New(table, opts...)
	if err != nil {
		return nil, nil, err
	}
	return m, table, nil
}

// ReadRecords reads and decodes the records named by arg, a file path or
// StdinArg. Files are decoded by extension; standard input is sniffed.
func ReadRecords(cmd *cobra.Command, arg string) ([]record.Record, error) {
	if arg == "" || arg == StdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.WrapIO("read", "stdin", err)
		}
		return record.DecodeAll(data, Sniff(data))
	}

	data, err := os.ReadFile(arg) // #nosec G304 - path supplied by the user on purpose
	if err != nil {
		return nil, errors.WrapIO("read", arg, err)
	}
	return record.DecodeAll(data, record.FormatFromPath(arg))
}

// Sniff reports JSON for documents opening with an object or array and
// YAML otherwise.
func Sniff(data []byte) record.Format {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return record.FormatJSON
	}
	return record.FormatYAML
}

// Render writes the result of a command in the configured output format.
// Tabular formats print tabular; the others serialize raw.
func Render(cmd *cobra.Command, app application.Application, tabular output.Data, raw any) error {
	format, err := Format(cmd, app)
	if err != nil {
		return err
	}

	data := raw
	if output.IsTabular(format) {
		data = tabular
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}

// Format resolves the output format from flags, then configuration, then
// terminal detection.
func Format(cmd *cobra.Command, app application.Application) (output.Format, error) {
	explicit := app.OutputFormat()
	if flags, err := globals.Parse(cmd); err == nil && flags.Output != "" {
		explicit = flags.Output
	}
	if explicit == "" {
		return output.DetectFormat(""), nil
	}
	format, err := output.ParseFormat(explicit)
	if err != nil {
		return "", fmt.Errorf("resolving output format: %w", err)
	}
	return format, nil
}

// Quiet reports whether the -q flag is set.
func Quiet(cmd *cobra.Command) bool {
	flags, err := globals.Parse(cmd)
	return err == nil && flags.Quiet
}
