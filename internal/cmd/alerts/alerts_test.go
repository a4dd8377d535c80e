package alerts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertString(t *testing.T) {
	a := NewSuccess("Inserted row Smith2020")
	assert.Equal(t, "✓ Inserted row Smith2020", a.String())

	e := NewError("Insert failed").WithError(errors.New("row not found"))
	assert.Equal(t, "✗ Insert failed: row not found", e.String())
}

func TestLevels(t *testing.T) {
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "unknown(9)", Level(9).String())
	assert.Equal(t, "?", Level(9).Icon())
	assert.Equal(t, "i", NewInfo("x").Level.Icon())
	assert.Equal(t, "!", NewWarning("x").Level.Icon())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	alert := NewWarning("2 fields unmatched").WithDetails("weight", "height")
	require.NoError(t, w.Write(alert))
	assert.Equal(t, "! 2 fields unmatched\n  weight\n  height\n", buf.String())

	buf.Reset()
	require.NoError(t, w.WithDetails(false).Write(alert))
	assert.Equal(t, "! 2 fields unmatched\n", buf.String())
}
