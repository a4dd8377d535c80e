package fieldmap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/pkg/dataset"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/logging"
	"github.com/agentstation/fieldmap/pkg/reconcile"
	"github.com/agentstation/fieldmap/pkg/record"
)

func newDataset(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable("PDF_Name", "total_patients", "gender", "age", "study_design", "mortality_rate")
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow("Study2020.pdf"))
	require.NoError(t, tbl.AppendRow("Study2023.pdf"))
	require.NoError(t, tbl.AppendRow("Study2023.pdf"))
	return tbl
}

func newMapper(t *testing.T, ds dataset.Dataset, opts ...fieldmap.Option) *fieldmap.Mapper {
	t.Helper()
	opts = append([]fieldmap.Option{
		fieldmap.WithLogger(logging.NewNopLogger()),
		fieldmap.WithReporter(reconcile.NopReporter()),
	}, opts...)
	m, err := fieldmap.New(ds, opts...)
	require.NoError(t, err)
	return m
}

func cell(t *testing.T, ds dataset.Reader, row int, col string) string {
	t.Helper()
	v, _ := ds.Cell(row, col)
	return v
}

func TestInsertNestedRecord(t *testing.T) {
	ds := newDataset(t)
	m := newMapper(t, ds)

	rec := record.Record{
		{Key: "PDF_Name", Value: "Study2023.pdf"},
		{Key: "patient_data", Value: record.Record{
			{Key: "total_patients", Value: 42},
			{Key: "age", Value: ""},
		}},
	}

	out := m.Insert(context.Background(), rec, "")
	require.True(t, out.Success, out.Message)
	assert.NoError(t, out.Err)
	assert.Equal(t, "Study2023.pdf", out.RowKey)
	assert.Equal(t, 2, out.RowIndex, "first matching row wins, 1-based")
	assert.Equal(t, []string{"PDF_Name", "total_patients"}, out.MappedColumns)
	assert.Equal(t, 2, out.FieldsMapped)
	assert.Equal(t, 2, out.FieldsWritten)
	assert.Len(t, out.Trace, 3)

	assert.Equal(t, "42", cell(t, ds, 1, "total_patients"))
	assert.Equal(t, "Study2023.pdf", cell(t, ds, 1, "PDF_Name"))
	_, ok := ds.Cell(1, "age")
	assert.False(t, ok, "empty values are never written")
	_, ok = ds.Cell(2, "total_patients")
	assert.False(t, ok, "duplicate row untouched")
}

func TestInsertKeyAppendedWhenNotMatched(t *testing.T) {
	ds := newDataset(t)
	m := newMapper(t, ds)

	out := m.Insert(context.Background(), map[string]any{"gender": "female", "age": 61}, "Study2020.pdf")
	require.True(t, out.Success, out.Message)
	assert.Equal(t, []string{"age", "gender", "PDF_Name"}, out.MappedColumns)
	assert.Equal(t, 1, out.RowIndex)
	assert.Equal(t, "61", cell(t, ds, 0, "age"))
}

func TestInsertGenderLastWins(t *testing.T) {
	ds := newDataset(t)
	m := newMapper(t, ds)

	rec := record.Record{
		{Key: "PDF_Name", Value: "Study2020.pdf"},
		{Key: "gender_distribution", Value: "60% female"},
		{Key: "patient_gender", Value: "female"},
	}
	out := m.Insert(context.Background(), rec, "")
	require.True(t, out.Success, out.Message)
	assert.Equal(t, "female", cell(t, ds, 0, "gender"))
	assert.Equal(t, []string{"PDF_Name", "gender"}, out.MappedColumns)
}

func TestInsertFailures(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		override string
		sentinel error
		kind     string
	}{
		{"not a mapping", []any{"a"}, "", errors.ErrInvalidInput, "invalid_input"},
		{"nil input", nil, "Study2020.pdf", errors.ErrInvalidInput, "invalid_input"},
		{"missing key", record.Record{{Key: "age", Value: 61}}, "", errors.ErrMissingKey, "missing_key"},
		{"empty key field wins over override", record.Record{{Key: "PDF_Name", Value: ""}}, "Study2020.pdf", errors.ErrMissingKey, "missing_key"},
		{"null key field", record.Record{{Key: "PDF_Name", Value: nil}}, "Study2020.pdf", errors.ErrMissingKey, "missing_key"},
		{"unknown key", record.Record{{Key: "PDF_Name", Value: "Nope.pdf"}, {Key: "age", Value: 61}}, "", errors.ErrRowNotFound, "row_not_found"},
		{"unknown override", record.Record{{Key: "age", Value: 61}}, "Nope.pdf", errors.ErrRowNotFound, "row_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := newDataset(t)
			m := newMapper(t, ds)

			out := m.Insert(context.Background(), tt.input, tt.override)
			assert.False(t, out.Success)
			assert.ErrorIs(t, out.Err, tt.sentinel)
			assert.Equal(t, tt.kind, out.ErrorKind)
			assert.NotEmpty(t, out.Message)
			assert.Zero(t, out.FieldsWritten)

			for row := 0; row < ds.Len(); row++ {
				_, ok := ds.Cell(row, "age")
				assert.False(t, ok, "nothing written on failure")
			}
		})
	}
}

// brokenColumn is a Table whose writes to one column fail.
type brokenColumn struct {
	*dataset.Table
	column string
}

func (b *brokenColumn) SetCell(row int, column, value string) error {
	if column == b.column {
		return errors.NewIOError("write", column, errors.New("read-only column"))
	}
	return b.Table.SetCell(row, column, value)
}

func TestInsertRestoresRowWhenAWriteFails(t *testing.T) {
	tbl := newDataset(t)
	require.NoError(t, tbl.SetCell(1, "total_patients", "10"))
	ds := &brokenColumn{Table: tbl, column: "age"}
	m := newMapper(t, ds)

	rec := record.Record{
		{Key: "PDF_Name", Value: "Study2023.pdf"},
		{Key: "total_patients", Value: 42},
		{Key: "gender", Value: "F"},
		{Key: "age", Value: 61},
	}

	out := m.Insert(context.Background(), rec, "")
	require.False(t, out.Success)
	assert.ErrorContains(t, out.Err, "read-only column")
	assert.Zero(t, out.FieldsWritten)

	assert.Equal(t, "10", cell(t, tbl, 1, "total_patients"))
	_, ok := tbl.Cell(1, "gender")
	assert.False(t, ok, "cleared back to missing")
	_, ok = tbl.Cell(1, "age")
	assert.False(t, ok)
	assert.Equal(t, "Study2023.pdf", cell(t, tbl, 1, "PDF_Name"))
}

func TestInsertMissingKeyMessage(t *testing.T) {
	m := newMapper(t, newDataset(t))
	out := m.Insert(context.Background(), map[string]any{"age": 1}, "")
	assert.Equal(t, "PDF_Name must be provided in the record or as a parameter", out.Message)
}

func TestInsertJSONAndYAML(t *testing.T) {
	ctx := context.Background()

	t.Run("json", func(t *testing.T) {
		ds := newDataset(t)
		m := newMapper(t, ds)
		out := m.InsertJSON(ctx, []byte(`{"PDF_Name": "Study2020.pdf", "results": {"mortality_rate": 0.12}}`), "")
		require.True(t, out.Success, out.Message)
		assert.Equal(t, "0.12", cell(t, ds, 0, "mortality_rate"))
	})

	t.Run("yaml", func(t *testing.T) {
		ds := newDataset(t)
		m := newMapper(t, ds)
		out := m.InsertYAML(ctx, []byte("study:\n  Study_Design: RCT\n"), "Study2020.pdf")
		require.True(t, out.Success, out.Message)
		assert.Equal(t, "RCT", cell(t, ds, 0, "study_design"))
	})

	t.Run("non-object json", func(t *testing.T) {
		m := newMapper(t, newDataset(t))
		out := m.InsertJSON(ctx, []byte(`["PDF_Name"]`), "Study2020.pdf")
		assert.False(t, out.Success)
		assert.True(t, errors.IsValidationError(out.Err))
	})

	t.Run("malformed json", func(t *testing.T) {
		m := newMapper(t, newDataset(t))
		out := m.InsertJSON(ctx, []byte(`{"PDF_Name": `), "")
		assert.False(t, out.Success)
		assert.Equal(t, "invalid_input", out.ErrorKind)
	})
}

func TestInsertAll(t *testing.T) {
	ds := newDataset(t)
	m := newMapper(t, ds)

	outs := m.InsertAll(context.Background(), []record.Record{
		{{Key: "PDF_Name", Value: "Study2020.pdf"}, {Key: "age", Value: 50}},
		{{Key: "PDF_Name", Value: "Missing.pdf"}, {Key: "age", Value: 51}},
		{{Key: "PDF_Name", Value: "Study2023.pdf"}, {Key: "age", Value: 52}},
	}, "")

	require.Len(t, outs, 3)
	assert.True(t, outs[0].Success)
	assert.False(t, outs[1].Success)
	assert.True(t, outs[2].Success)
	assert.Equal(t, "50", cell(t, ds, 0, "age"))
	assert.Equal(t, "52", cell(t, ds, 1, "age"))
}

func TestHooks(t *testing.T) {
	m := newMapper(t, newDataset(t))

	var inserted, failedKeys []string
	m.OnInserted(func(o fieldmap.Outcome) { inserted = append(inserted, o.RowKey) })
	m.OnFailed(func(o fieldmap.Outcome) { failedKeys = append(failedKeys, o.ErrorKind) })

	ctx := context.Background()
	m.Insert(ctx, map[string]any{"PDF_Name": "Study2020.pdf"}, "")
	m.Insert(ctx, map[string]any{"age": 3}, "")
	m.InsertJSON(ctx, []byte(`42`), "")

	assert.Equal(t, []string{"Study2020.pdf"}, inserted)
	assert.Equal(t, []string{"missing_key", "invalid_input"}, failedKeys)
}

func TestMap(t *testing.T) {
	ds := newDataset(t)
	m := newMapper(t, ds)

	res, err := m.Map(map[string]any{"patient_data": map[string]any{"total_patients": 42}})
	require.NoError(t, err)
	v, ok := res.Values.Get("total_patients")
	require.True(t, ok)
	assert.Equal(t, "42", v)
	assert.Equal(t, reconcile.StrategyTypeSuffix, res.Trace[0].Strategy)

	_, ok = ds.Cell(0, "total_patients")
	assert.False(t, ok, "Map never writes")

	_, err = m.Map("nope")
	assert.True(t, errors.IsValidationError(err))
}

func TestPreview(t *testing.T) {
	ds := newDataset(t)
	m := newMapper(t, ds)
	require.NoError(t, ds.SetCell(0, "age", "65"))
	require.NoError(t, ds.SetCell(0, "gender", "  "))

	got, err := m.Preview("Study2020.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"PDF_Name", "age"}, got.Keys())

	_, err = m.Preview("Nope.pdf")
	assert.True(t, errors.IsRowNotFound(err))
}

func TestStats(t *testing.T) {
	ds := newDataset(t)
	m := newMapper(t, ds)
	require.NoError(t, ds.SetCell(0, "age", "65"))

	report := m.Stats()
	assert.Equal(t, 3, report.Rows)
	age, ok := report.Column("age")
	require.True(t, ok)
	assert.Equal(t, 1, age.Filled)
	assert.Equal(t, 33.3, age.Percentage)
}

func TestOptions(t *testing.T) {
	t.Run("custom key column", func(t *testing.T) {
		tbl, err := dataset.NewTable("doc_id", "age")
		require.NoError(t, err)
		require.NoError(t, tbl.AppendRow("d1"))

		m := newMapper(t, tbl, fieldmap.WithKeyColumn("doc_id"))
		assert.Equal(t, "doc_id", m.KeyColumn())
		out := m.Insert(context.Background(), map[string]any{"doc_id": "d1", "patient.age": 3}, "")
		require.True(t, out.Success, out.Message)
	})

	t.Run("key column must exist", func(t *testing.T) {
		_, err := fieldmap.New(newDataset(t), fieldmap.WithKeyColumn("doc_id"))
		assert.ErrorIs(t, err, errors.ErrColumnNotFound)
	})

	t.Run("separator", func(t *testing.T) {
		ds := newDataset(t)
		m := newMapper(t, ds, fieldmap.WithSeparator("."))
		rec := record.Record{
			{Key: "PDF_Name", Value: "Study2020.pdf"},
			{Key: "patient", Value: record.Record{{Key: "age", Value: 70}}},
		}
		out := m.Insert(context.Background(), rec, "")
		require.True(t, out.Success, out.Message)
		assert.Equal(t, "70", cell(t, ds, 0, "age"))
	})

	t.Run("without token overlap", func(t *testing.T) {
		ds := newDataset(t)
		m := newMapper(t, ds, fieldmap.WithoutTokenOverlap())
		out := m.Insert(context.Background(), map[string]any{"mortality_percent": "3%"}, "Study2020.pdf")
		require.True(t, out.Success, out.Message)
		assert.Equal(t, []string{"PDF_Name"}, out.MappedColumns)
	})

	t.Run("list expansion", func(t *testing.T) {
		tbl, err := dataset.NewTable("PDF_Name", "arms_0", "arms_1")
		require.NoError(t, err)
		require.NoError(t, tbl.AppendRow("a.pdf"))

		m := newMapper(t, tbl, fieldmap.WithListExpansion())
		out := m.Insert(context.Background(), map[string]any{"arms": []any{"placebo", "drug"}}, "a.pdf")
		require.True(t, out.Success, out.Message)
		assert.Equal(t, "placebo", cell(t, tbl, 0, "arms_0"))
		assert.Equal(t, "drug", cell(t, tbl, 0, "arms_1"))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := fieldmap.New(newDataset(t), fieldmap.WithSeparator(""))
		assert.True(t, errors.IsValidationError(err))

		_, err = fieldmap.New(newDataset(t), fieldmap.WithKeyColumn(""))
		assert.True(t, errors.IsValidationError(err))

		_, err = fieldmap.New(nil)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestInsertLogsOutcome(t *testing.T) {
	tl := logging.NewTestLogger(t)
	m, err := fieldmap.New(newDataset(t), fieldmap.WithLogger(tl.Logger))
	require.NoError(t, err)

	m.Insert(context.Background(), map[string]any{"PDF_Name": "Study2020.pdf", "age": 40}, "")
	tl.AssertContains(t, `"message":"Inserted record"`)
	tl.AssertContains(t, `"fields_written":2`)
	tl.AssertContains(t, `"message":"Mapped field"`)
	tl.AssertContains(t, `"row_key":"Study2020.pdf"`)
}

func TestInsertAllLogsRecordPosition(t *testing.T) {
	tl := logging.NewTestLogger(t)
	m, err := fieldmap.New(newDataset(t), fieldmap.WithLogger(tl.Logger))
	require.NoError(t, err)

	m.InsertAll(context.Background(), []record.Record{
		{{Key: "PDF_Name", Value: "Study2020.pdf"}, {Key: "age", Value: 40}},
		{{Key: "PDF_Name", Value: "Nope.pdf"}},
	}, "")

	tl.AssertContains(t, `"record":1`)
	tl.AssertContains(t, `"record":2`)
	tl.AssertContains(t, `"batch":2`)
	tl.AssertContains(t, `"row_key":"Nope.pdf"`)
	tl.AssertContains(t, `"message":"Insert failed"`)
}
