package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

const completionHelp = `Generate shell completion scripts for autoinstall.

To load completions:

Bash:
  $ source <(autoinstall completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ autoinstall completion bash > /etc/bash_completion.d/autoinstall
  # macOS:
  $ autoinstall completion bash > $(brew --prefix)/etc/bash_completion.d/autoinstall

Zsh:
  $ autoinstall completion zsh > "${fpath[1]}/_autoinstall"

Fish:
  $ autoinstall completion fish > ~/.config/fish/completions/autoinstall.fish

PowerShell:
  PS> autoinstall completion powershell | Out-String | Invoke-Expression
`

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  strings.TrimSpace(completionHelp),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
