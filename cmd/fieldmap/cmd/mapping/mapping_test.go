package mapping

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/pkg/dataset"
)

func mockApp(t *testing.T, format string) *application.Mock {
	t.Helper()
	tbl, err := dataset.NewTable("PDF_Name", "total_patients", "mortality_rate")
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow("Smith2020"))

	return &application.Mock{
		LoadDatasetFunc: func(context.Context, string, ...dataset.Option) (*dataset.Table, error) {
			return tbl, nil
		},
		OutputFormatFunc: func() string { return format },
	}
}

func execute(t *testing.T, app application.Application, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestMapTable(t *testing.T) {
	out, err := execute(t, mockApp(t, "table"),
		`{"patient_data": {"total_patients": 42}, "Mortality Rate": "3%", "weight": 70}`,
		"studies.csv")
	require.NoError(t, err)

	assert.Contains(t, out, "patient_data_total_patients")
	assert.Contains(t, out, "Suffix")
	assert.Contains(t, out, "unmatched")
}

func TestMapJSON(t *testing.T) {
	out, err := execute(t, mockApp(t, "json"), `{"total_patients": 42}`, "studies.csv", "-")
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"values": {"total_patients": "42"},
		"trace": [{"field": "total_patients", "value": "42", "column": "total_patients", "strategy": "exact"}]
	}`, out)
}

func TestMapBatchYAML(t *testing.T) {
	out, err := execute(t, mockApp(t, "yaml"), "- total_patients: 1\n- total_patients: 2\n", "studies.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "values:"))
}

func TestMapNeedsKeyColumn(t *testing.T) {
	_, err := execute(t, mockApp(t, "json"), `{}`, "studies.csv", "--key-column", "Study")
	require.Error(t, err)
}
