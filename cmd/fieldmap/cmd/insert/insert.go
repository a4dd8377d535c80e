// Package insert provides the command that writes records into dataset rows.
package insert

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/internal/cmd/alerts"
	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/internal/cmd/cmdutil"
	"github.com/agentstation/fieldmap/internal/cmd/globals"
	"github.com/agentstation/fieldmap/internal/cmd/hints"
	"github.com/agentstation/fieldmap/internal/cmd/table"
)

// Flags holds the insert command flags.
type Flags struct {
	*globals.MappingFlags
	RowKey string
	Out    string
	DryRun bool
}

// NewCommand creates the insert command.
func NewCommand(app application.Application) *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:     "insert <dataset> [record-file|-]",
		GroupID: "core",
		Short:   "Insert records into the matching dataset rows",
		Long: `Insert flattens each record, maps its fields onto the dataset columns and
writes the values into the row whose key column matches.

The record file may hold one object or a list of objects, as JSON or YAML.
Without a file, or with "-", records are read from standard input.

The row key comes from the record's key column field, or from --row-key.
Records whose key is missing or not in the dataset are reported and skipped;
the remaining records are still written.`,
		Example: `  fieldmap insert studies.xlsx extraction.json
  fieldmap insert studies.csv record.yaml --row-key Smith2020
  cat records.json | fieldmap insert studies.csv --out filled.csv
  fieldmap insert sqlite://studies.db?table=rsv extraction.json --dry-run`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := cmdutil.StdinArg
			if len(args) == 2 {
				source = args[1]
			}
			return run(cmd.Context(), cmd, app, args[0], source, &flags)
		},
	}

	flags.MappingFlags = globals.AddMappingFlags(cmd)
	cmd.Flags().StringVarP(&flags.RowKey, "row-key", "r", "",
		"Row key to use when the record carries none")
	cmd.Flags().StringVar(&flags.Out, "out", "",
		"Write the updated dataset here instead of overwriting the input")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Report what would be written without saving")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, app application.Application, location, source string, flags *Flags) error {
	logger := app.Logger()

	m, ds, err := cmdutil.OpenMapper(ctx, app, location, flags.MappingFlags)
	if err != nil {
		return err
	}

	records, err := cmdutil.ReadRecords(cmd, source)
	if err != nil {
		return err
	}

	outcomes := m.InsertAll(ctx, records, flags.RowKey)
	inserted := countInserted(outcomes)

	quiet := cmdutil.Quiet(cmd)
	if !quiet {
		if err := report(alerts.NewWriter(cmd.ErrOrStderr()), outcomes); err != nil {
			return err
		}
	}

	if inserted > 0 && !flags.DryRun {
		dest := location
		if flags.Out != "" {
			dest = flags.Out
		}
		if err := app.SaveDataset(ctx, ds, dest, flags.DatasetOptions()...); err != nil {
			return err
		}
		logger.Info().Str("dataset", dest).Int("inserted", inserted).Msg("Saved dataset")
	}

	if err := cmdutil.Render(cmd, app, table.OutcomesToTableData(outcomes), outcomes); err != nil {
		return err
	}

	if failed := len(outcomes) - inserted; failed > 0 {
		if !quiet {
			kinds := make([]string, 0, failed)
			for _, o := range outcomes {
				kinds = append(kinds, o.ErrorKind)
			}
			hc := hints.Context{Dataset: location, KeyColumn: m.KeyColumn()}
			if err := hints.Write(cmd.ErrOrStderr(), hints.ForKinds(kinds, hc)); err != nil {
				return err
			}
		}
		return fmt.Errorf("%d of %d records failed", failed, len(outcomes))
	}
	return nil
}

func countInserted(outcomes []fieldmap.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// report writes one status line per outcome, warning about fields that
// matched no column.
func report(w *alerts.Writer, outcomes []fieldmap.Outcome) error {
	for _, o := range outcomes {
		if !o.Success {
			if err := w.Write(alerts.NewError(o.Message)); err != nil {
				return err
			}
			continue
		}

		msg := fmt.Sprintf("Row %s: wrote %d of %d fields", o.RowKey, o.FieldsWritten, o.FieldsMapped)
		if err := w.Write(alerts.NewSuccess(msg)); err != nil {
			return err
		}

		var unmatched []string
		for _, e := range o.Trace {
			if !e.Matched() {
				unmatched = append(unmatched, e.Field)
			}
		}
		if len(unmatched) > 0 {
			warning := alerts.NewWarning(fmt.Sprintf("%d fields matched no column", len(unmatched))).
				WithDetails(unmatched...)
			if err := w.Write(warning); err != nil {
				return err
			}
		}
	}
	return nil
}
