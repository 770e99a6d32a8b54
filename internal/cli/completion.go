package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand emits a completion script for the requested shell.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate a shell completion script",
		Long: `Generate a completion script for flipgraph and print it to stdout.

Load it directly for the current session, for example:

  $ source <(flipgraph completion bash)
  $ flipgraph completion fish | source
  PS> flipgraph completion powershell | Out-String | Invoke-Expression

Or install it permanently:

  # Bash (Linux)
  $ flipgraph completion bash > /etc/bash_completion.d/flipgraph

  # Bash (macOS with Homebrew)
  $ flipgraph completion bash > $(brew --prefix)/etc/bash_completion.d/flipgraph

  # Zsh (needs "autoload -U compinit; compinit" in ~/.zshrc)
  $ flipgraph completion zsh > "${fpath[1]}/_flipgraph"

  # Fish
  $ flipgraph completion fish > ~/.config/fish/completions/flipgraph.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
