package insert

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/pkg/dataset"
)

func studies(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable("PDF_Name", "total_patients", "gender")
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow("Smith2020"))
	require.NoError(t, tbl.AppendRow("Jones2021"))
	return tbl
}

type harness struct {
	app      *application.Mock
	table    *dataset.Table
	saved    *dataset.Table
	savedTo  string
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	location string
}

func newHarness(t *testing.T) *harness {
	h := &harness{table: studies(t)}
	h.app = &application.Mock{
		LoadDatasetFunc: func(_ context.Context, location string, _ ...dataset.Option) (*dataset.Table, error) {
			h.location = location
			return h.table, nil
		},
		SaveDatasetFunc: func(_ context.Context, tbl *dataset.Table, location string, _ ...dataset.Option) error {
			h.saved = tbl
			h.savedTo = location
			return nil
		},
		OutputFormatFunc: func() string { return "json" },
	}
	return h
}

func (h *harness) run(stdin string, args ...string) error {
	if args == nil {
		args = []string{}
	}
	cmd := NewCommand(h.app)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&h.stdout)
	cmd.SetErr(&h.stderr)
	return cmd.Execute()
}

func (h *harness) outcomes(t *testing.T) []fieldmap.Outcome {
	t.Helper()
	var out []fieldmap.Outcome
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &out))
	return out
}

func TestInsertFromStdin(t *testing.T) {
	h := newHarness(t)

	err := h.run(`{"PDF_Name": "Jones2021", "patient_data": {"total_patients": 42}}`, "studies.csv")
	require.NoError(t, err)

	assert.Equal(t, "studies.csv", h.location)
	assert.Equal(t, "studies.csv", h.savedTo)
	require.NotNil(t, h.saved)
	v, ok := h.saved.Cell(1, "total_patients")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	outcomes := h.outcomes(t)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Success)
	assert.Equal(t, 2, outcomes[0].RowIndex)
	assert.Contains(t, h.stderr.String(), "Row Jones2021")
}

func TestInsertFromFileWithRowKey(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(t.TempDir(), "record.yaml")
	require.NoError(t, os.WriteFile(path, []byte("patient_gender: female\nweight: 70\n"), 0o600))

	err := h.run("", "studies.csv", path, "--row-key", "Smith2020", "--out", "filled.csv")
	require.NoError(t, err)

	assert.Equal(t, "filled.csv", h.savedTo)
	v, _ := h.saved.Cell(0, "gender")
	assert.Equal(t, "female", v)
	assert.Contains(t, h.stderr.String(), "matched no column")
	assert.Contains(t, h.stderr.String(), "weight")
}

func TestInsertBatchWithFailure(t *testing.T) {
	h := newHarness(t)

	err := h.run(`[{"PDF_Name": "Smith2020", "gender": "male"}, {"PDF_Name": "Nobody"}]`, "studies.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 records failed")

	// the successful record is still saved
	require.NotNil(t, h.saved)
	outcomes := h.outcomes(t)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Success)
	assert.Equal(t, "row_not_found", outcomes[1].ErrorKind)
}

func TestInsertDryRun(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(`{"PDF_Name": "Smith2020", "gender": "male"}`, "studies.csv", "--dry-run"))
	assert.Nil(t, h.saved)
	assert.Len(t, h.outcomes(t), 1)
}

func TestInsertNothingSavedWhenAllFail(t *testing.T) {
	h := newHarness(t)

	err := h.run(`{"gender": "male"}`, "studies.csv")
	require.Error(t, err)
	assert.Nil(t, h.saved)
	assert.Equal(t, "missing_key", h.outcomes(t)[0].ErrorKind)
	assert.Contains(t, h.stderr.String(), "--row-key")
}

func TestInsertInvalidRecord(t *testing.T) {
	h := newHarness(t)

	err := h.run(`"just a string"`, "studies.csv")
	require.Error(t, err)
	assert.Nil(t, h.saved)
}

func TestInsertLoadError(t *testing.T) {
	h := newHarness(t)
	h.app.LoadDatasetFunc = nil

	err := h.run(`{}`, "missing.csv")
	require.Error(t, err)
}

func TestInsertKeyColumnFlag(t *testing.T) {
	h := newHarness(t)

	err := h.run(`{"PDF_Name": "Smith2020"}`, "studies.csv", "--key-column", "Study")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Study")
}

func TestInsertRequiresDataset(t *testing.T) {
	h := newHarness(t)
	err := h.run("")
	require.Error(t, err)
}

func TestNewCommandFlags(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	for _, name := range []string{"row-key", "out", "dry-run", "key-column", "separator", "no-token-overlap", "sheet", "table"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
