package completion

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	for _, shell := range []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell} {
		t.Run(shell, func(t *testing.T) {
			root := &cobra.Command{Use: "fieldmap"}
			root.AddCommand(NewCommand())

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "fieldmap")
		})
	}
}

func TestCompletionUnknownShell(t *testing.T) {
	root := &cobra.Command{Use: "fieldmap"}
	root.AddCommand(NewCommand())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	assert.Error(t, root.Execute())
}
