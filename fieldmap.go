// Package fieldmap writes nested key-value records into the matching columns
// of an existing tabular dataset.
//
// A record is flattened into path -> value pairs, each path is reconciled
// against the dataset's columns through a cascade of increasingly permissive
// matching strategies, and the matched values are written into the row whose
// key column equals the record's row key (PDF_Name by default).
//
//	ds, _ := dataset.Load(ctx, "studies.xlsx")
//	m, _ := fieldmap.New(ds)
//	outcome := m.InsertJSON(ctx, data, "")
//	if !outcome.Success {
//		return outcome.Err
//	}
//	_ = dataset.Save(ctx, ds, "studies.xlsx")
package fieldmap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/fieldmap/pkg/dataset"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/flatten"
	"github.com/agentstation/fieldmap/pkg/logging"
	"github.com/agentstation/fieldmap/pkg/reconcile"
	"github.com/agentstation/fieldmap/pkg/record"
	"github.com/agentstation/fieldmap/pkg/stats"
)

// Mapper inserts records into a dataset.
// A Mapper is not safe for concurrent use.
type Mapper struct {
	ds         dataset.Dataset
	config     *config
	reconciler *reconcile.Reconciler
	hooks      *hooks
}

// New creates a Mapper over ds. The key column must exist in ds.
func New(ds dataset.Dataset, opts ...Option) (*Mapper, error) {
	if ds == nil {
		return nil, &errors.ValidationError{Field: "dataset", Message: "cannot be nil"}
	}

	cfg, err := defaultConfig().apply(opts...)
	if err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	if !reconcile.ColumnSet(ds.Columns()).Contains(cfg.keyColumn) {
		return nil, errors.NewColumnNotFoundError(cfg.keyColumn)
	}

	r, err := reconcile.New(cfg.reconcileOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating reconciler: %w", err)
	}

	return &Mapper{
		ds:         ds,
		config:     cfg,
		reconciler: r,
		hooks:      newHooks(),
	}, nil
}

// Dataset returns the underlying dataset.
func (m *Mapper) Dataset() dataset.Dataset {
	return m.ds
}

// KeyColumn returns the row key column.
func (m *Mapper) KeyColumn() string {
	return m.config.keyColumn
}

// Columns returns the dataset columns in order.
func (m *Mapper) Columns() reconcile.ColumnSet {
	return reconcile.ColumnSet(m.ds.Columns())
}

// Reconciler returns the reconciler in use.
func (m *Mapper) Reconciler() *reconcile.Reconciler {
	return m.reconciler
}

// OnInserted registers a callback for successful insertions.
func (m *Mapper) OnInserted(fn InsertedHook) {
	m.hooks.OnInserted(fn)
}

// OnFailed registers a callback for failed insertions.
func (m *Mapper) OnFailed(fn FailedHook) {
	m.hooks.OnFailed(fn)
}

func (m *Mapper) logger(ctx context.Context) *zerolog.Logger {
	if m.config.logger != nil {
		return m.config.logger
	}
	return logging.FromContext(ctx)
}

// Flatten flattens input with the Mapper's separator and list handling.
func (m *Mapper) Flatten(input any) (*flatten.Map, error) {
	rec, err := toRecord(input)
	if err != nil {
		return nil, err
	}
	return flatten.Flatten(rec, m.config.flattenOptions()...), nil
}

// Map reconciles input against the dataset columns without writing anything.
func (m *Mapper) Map(input any) (*reconcile.Result, error) {
	fields, err := m.Flatten(input)
	if err != nil {
		return nil, err
	}
	return m.reconciler.Reconcile(fields, m.Columns()), nil
}

// Insert writes the values of input into the row identified by its key
// column, or by rowKeyOverride when the record has no key field.
func (m *Mapper) Insert(ctx context.Context, input any, rowKeyOverride string) Outcome {
	return m.insertLogged(m.logContext(ctx), input, rowKeyOverride)
}

// logContext returns ctx carrying the Mapper's logger.
func (m *Mapper) logContext(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, m.logger(ctx))
}

func (m *Mapper) insertLogged(ctx context.Context, input any, rowKeyOverride string) Outcome {
	return m.finish(ctx, m.insert(ctx, input, rowKeyOverride))
}

// finish logs the outcome and dispatches hooks.
func (m *Mapper) finish(ctx context.Context, outcome Outcome) Outcome {
	m.hooks.trigger(outcome)

	if outcome.RowKey != "" {
		ctx = logging.WithRowKey(ctx, outcome.RowKey)
	}
	log := logging.FromContext(ctx)
	if outcome.Success {
		log.Info().
			Int("row", outcome.RowIndex).
			Int("fields_mapped", outcome.FieldsMapped).
			Int("fields_written", outcome.FieldsWritten).
			Msg("Inserted record")
	} else {
		log.Warn().
			Err(outcome.Err).
			Str("kind", outcome.ErrorKind).
			Msg("Insert failed")
	}
	return outcome
}

func (m *Mapper) insert(ctx context.Context, input any, rowKeyOverride string) Outcome {
	rec, err := toRecord(input)
	if err != nil {
		return failed("", err)
	}

	key := m.resolveKey(rec, rowKeyOverride)
	if key == "" {
		return failed("", errors.NewMissingKeyError(m.config.keyColumn))
	}
	ctx = logging.WithRowKey(ctx, key)

	row, ok := dataset.Find(m.ds, m.config.keyColumn, key)
	if !ok {
		return failed(key, errors.NewRowNotFoundError(m.config.keyColumn, key))
	}

	columns := m.Columns()
	res := m.reconciler.Reconcile(flatten.Flatten(rec, m.config.flattenOptions()...), columns)

	values := res.Values
	values.Set(m.config.keyColumn, key)

	var pending []string
	values.Each(func(col, _ string) {
		if columns.Contains(col) {
			pending = append(pending, col)
		}
	})

	if err := m.write(row, values, pending); err != nil {
		return failed(key, err)
	}
	written := len(pending)

	logging.FromContext(ctx).Debug().
		Strs("columns", values.Columns()).
		Int("unmatched", len(res.Unmatched())).
		Msg("Reconciled record")

	return Outcome{
		Success:       true,
		Message:       fmt.Sprintf("inserted %d fields for %s", written, key),
		RowKey:        key,
		RowIndex:      row + 1,
		FieldsMapped:  values.Len(),
		FieldsWritten: written,
		MappedColumns: values.Columns(),
		Trace:         res.Trace,
	}
}

// write stores values for columns in row. If a write fails, the cells
// already written get their previous contents back.
func (m *Mapper) write(row int, values *reconcile.Values, columns []string) error {
	type prior struct {
		value string
		ok    bool
	}
	before := make([]prior, len(columns))
	for i, col := range columns {
		v, ok := m.ds.Cell(row, col)
		before[i] = prior{value: v, ok: ok}
	}

	for i, col := range columns {
		v, _ := values.Get(col)
		if err := m.ds.SetCell(row, col, v); err != nil {
			for j := i - 1; j >= 0; j-- {
				m.restore(row, columns[j], before[j].value, before[j].ok)
			}
			return err
		}
	}
	return nil
}

func (m *Mapper) restore(row int, column, value string, ok bool) {
	if !ok {
		if c, isClearer := m.ds.(dataset.Clearer); isClearer {
			_ = c.ClearCell(row, column)
			return
		}
	}
	_ = m.ds.SetCell(row, column, value)
}

// resolveKey prefers the record's top-level key field, even when it is
// empty, over the override.
func (m *Mapper) resolveKey(rec record.Record, override string) string {
	if v, ok := rec.Get(m.config.keyColumn); ok {
		return record.Render(v)
	}
	return override
}

// InsertJSON decodes a JSON object and inserts it.
func (m *Mapper) InsertJSON(ctx context.Context, data []byte, rowKeyOverride string) Outcome {
	return m.insertEncoded(ctx, data, record.FormatJSON, rowKeyOverride)
}

// InsertYAML decodes a YAML mapping and inserts it.
func (m *Mapper) InsertYAML(ctx context.Context, data []byte, rowKeyOverride string) Outcome {
	return m.insertEncoded(ctx, data, record.FormatYAML, rowKeyOverride)
}

func (m *Mapper) insertEncoded(ctx context.Context, data []byte, format record.Format, rowKeyOverride string) Outcome {
	ctx = m.logContext(ctx)
	rec, err := record.Decode(data, format)
	if err != nil {
		return m.finish(ctx, failed("", err))
	}
	return m.insertLogged(ctx, rec, rowKeyOverride)
}

// InsertAll inserts each record in order. A failed record does not stop the
// batch.
func (m *Mapper) InsertAll(ctx context.Context, records []record.Record, rowKeyOverride string) []Outcome {
	ctx = m.logContext(ctx)
	outcomes := make([]Outcome, 0, len(records))
	for i, rec := range records {
		rctx := logging.WithFields(ctx, map[string]any{
			"record": i + 1,
			"batch":  len(records),
		})
		outcomes = append(outcomes, m.insertLogged(rctx, rec, rowKeyOverride))
	}
	return outcomes
}

// Preview returns the populated cells of the row with rowKey in column order.
func (m *Mapper) Preview(rowKey string) (*flatten.Map, error) {
	row, ok := dataset.Find(m.ds, m.config.keyColumn, rowKey)
	if !ok {
		return nil, errors.NewRowNotFoundError(m.config.keyColumn, rowKey)
	}

	out := flatten.NewMap()
	cols, vals := dataset.Populated(m.ds, row)
	for i, c := range cols {
		out.Set(c, vals[i])
	}
	return out, nil
}

// Stats computes column population statistics for the dataset.
func (m *Mapper) Stats() stats.Report {
	return stats.Compute(m.ds)
}

func toRecord(input any) (record.Record, error) {
	rec, ok := record.From(input)
	if !ok {
		return nil, errors.NewValidationError("record", input,
			fmt.Sprintf("input must be a mapping, got %T", input))
	}
	return rec, nil
}
