package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fieldmap/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	defer logging.SetDefault(original)

	var buf bytes.Buffer
	logging.SetDefault(zerolog.New(&buf).Level(zerolog.InfoLevel))

	logging.Info().Str("dataset", "studies.csv").Msg("Loaded dataset")
	logging.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), "Loaded dataset")
	assert.Contains(t, buf.String(), `"dataset":"studies.csv"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestContextLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithDataset(ctx, "studies.xlsx")
	ctx = logging.WithRowKey(ctx, "Study2023.pdf")
	ctx = logging.WithFields(ctx, map[string]any{"fields": 4, "dry_run": true})

	logging.FromContext(ctx).Info().Msg("Inserted record")

	tl.AssertContains(t, `"dataset":"studies.xlsx"`)
	tl.AssertContains(t, `"row_key":"Study2023.pdf"`)
	tl.AssertContains(t, `"fields":4`)
	tl.AssertContains(t, `"dry_run":true`)
	assert.Equal(t, 1, tl.Count())
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Equal(t, logging.Default(), logging.FromContext(nil))
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	t.Run("writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fieldmap.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"component": "reconcile"},
		})

		logger.Debug().Msg("mapped field")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "mapped field")
		assert.Contains(t, string(data), `"component":"reconcile"`)
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "loud", Output: "discard"})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestDisableLoggingForTest(t *testing.T) {
	logging.DisableLoggingForTest(t)
	assert.Equal(t, zerolog.Disabled, logging.Default().GetLevel())
}
