// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for BioMark.

Install instructions:
  Bash:       biomark completion bash > /etc/bash_completion.d/biomark
              echo 'source <(biomark completion bash)' >> ~/.bashrc
  Zsh:        biomark completion zsh > ~/.zsh/completions/_biomark
  Fish:       biomark completion fish > ~/.config/fish/completions/biomark.fish
  PowerShell: biomark completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				fmt.Fprintln(os.Stdout, "# BioMark bash completion")
				fmt.Fprintln(os.Stdout, "# Install: biomark completion bash > /etc/bash_completion.d/biomark")
				fmt.Fprintln(os.Stdout, "# Or:      echo 'source <(biomark completion bash)' >> ~/.bashrc")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				fmt.Fprintln(os.Stdout, "# BioMark zsh completion")
				fmt.Fprintln(os.Stdout, "# Install: biomark completion zsh > ~/.zsh/completions/_biomark")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				fmt.Fprintln(os.Stdout, "# BioMark fish completion")
				fmt.Fprintln(os.Stdout, "# Install: biomark completion fish > ~/.config/fish/completions/biomark.fish")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				fmt.Fprintln(os.Stdout, "# BioMark PowerShell completion")
				fmt.Fprintln(os.Stdout, "# Install: biomark completion powershell >> $PROFILE")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
