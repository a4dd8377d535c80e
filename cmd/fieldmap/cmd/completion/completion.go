// Package completion provides the shell completion command.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Supported shells.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// NewCommand creates the completion command. Scripts are generated from the
// root command and written to standard output.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate a shell completion script",
		Example: `  fieldmap completion bash > /etc/bash_completion.d/fieldmap
  fieldmap completion zsh > "${fpath[1]}/_fieldmap"
  fieldmap completion fish > ~/.config/fish/completions/fieldmap.fish`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			w := cmd.OutOrStdout()
			switch args[0] {
			case ShellBash:
				return root.GenBashCompletionV2(w, true)
			case ShellZsh:
				return root.GenZshCompletion(w)
			case ShellFish:
				return root.GenFishCompletion(w, true)
			case ShellPowerShell:
				return root.GenPowerShellCompletionWithDesc(w)
			default:
				return fmt.Errorf("unsupported shell %q: must be one of bash, zsh, fish, powershell", args[0])
			}
		},
	}
}
