package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fieldmap/pkg/dataset"
	"github.com/agentstation/fieldmap/pkg/errors"
)

func newTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable("PDF_Name", "age", "gender")
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow("a.pdf", "65", "  "))
	require.NoError(t, tbl.AppendRow("b.pdf"))
	require.NoError(t, tbl.AppendRow("a.pdf", "70"))
	return tbl
}

func TestTable(t *testing.T) {
	tbl := newTable(t)

	assert.Equal(t, []string{"PDF_Name", "age", "gender"}, tbl.Columns())
	assert.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.HasColumn("age"))
	assert.False(t, tbl.HasColumn("weight"))

	v, ok := tbl.Cell(0, "age")
	assert.True(t, ok)
	assert.Equal(t, "65", v)

	_, ok = tbl.Cell(1, "age")
	assert.False(t, ok, "short row leaves cells missing")

	_, ok = tbl.Cell(9, "age")
	assert.False(t, ok)
	_, ok = tbl.Cell(0, "weight")
	assert.False(t, ok)

	assert.Equal(t, []string{"b.pdf", "", ""}, tbl.Row(1))
	assert.Nil(t, tbl.Row(-1))
}

func TestTableMissingDistinctFromEmpty(t *testing.T) {
	tbl := newTable(t)

	require.NoError(t, tbl.SetCell(1, "age", ""))
	v, ok := tbl.Cell(1, "age")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	require.NoError(t, tbl.ClearCell(1, "age"))
	_, ok = tbl.Cell(1, "age")
	assert.False(t, ok)
}

func TestTableErrors(t *testing.T) {
	tbl := newTable(t)

	err := tbl.SetCell(0, "weight", "80")
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)

	err = tbl.SetCell(5, "age", "80")
	assert.True(t, errors.IsValidationError(err))

	err = tbl.AppendRow("a", "b", "c", "d")
	assert.True(t, errors.IsValidationError(err))

	_, err = dataset.NewTable("a", "b", "a")
	assert.True(t, errors.IsValidationError(err))
}

func TestFind(t *testing.T) {
	tbl := newTable(t)

	row, ok := dataset.Find(tbl, "PDF_Name", "a.pdf")
	assert.True(t, ok)
	assert.Equal(t, 0, row, "first occurrence wins")

	row, ok = dataset.Find(tbl, "PDF_Name", "b.pdf")
	assert.True(t, ok)
	assert.Equal(t, 1, row)

	_, ok = dataset.Find(tbl, "PDF_Name", "c.pdf")
	assert.False(t, ok)

	_, ok = dataset.Find(tbl, "missing", "a.pdf")
	assert.False(t, ok)
}

func TestPopulated(t *testing.T) {
	tbl := newTable(t)

	cols, vals := dataset.Populated(tbl, 0)
	assert.Equal(t, []string{"PDF_Name", "age"}, cols)
	assert.Equal(t, []string{"a.pdf", "65"}, vals)
}
