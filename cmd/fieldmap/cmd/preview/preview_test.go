package preview

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/pkg/dataset"
	"github.com/agentstation/fieldmap/pkg/errors"
)

func mockApp(t *testing.T) *application.Mock {
	t.Helper()
	tbl, err := dataset.NewTable("PDF_Name", "age", "gender", "notes")
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow("Smith2020", "54", "", "n/a"))

	return &application.Mock{
		LoadDatasetFunc: func(context.Context, string, ...dataset.Option) (*dataset.Table, error) {
			return tbl, nil
		},
		OutputFormatFunc: func() string { return "json" },
	}
}

func TestPreview(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(mockApp(t))
	cmd.SetArgs([]string{"studies.csv", "Smith2020"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "{\n  \"PDF_Name\": \"Smith2020\",\n  \"age\": \"54\",\n  \"notes\": \"n/a\"\n}\n", out.String())
}

func TestPreviewUnknownRow(t *testing.T) {
	cmd := NewCommand(mockApp(t))
	cmd.SetArgs([]string{"studies.csv", "Nobody"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsRowNotFound(err))
}

func TestPreviewArgs(t *testing.T) {
	cmd := NewCommand(mockApp(t))
	cmd.SetArgs([]string{"studies.csv"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
