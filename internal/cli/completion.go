package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for deptree.

Completion covers the dot and json subcommands, every flag, and the
values of --charset (utf8, ascii) and --prefix (indent, depth, none).

Bash:
  $ source <(deptree completion bash)

Zsh:
  $ deptree completion zsh > "${fpath[1]}/_deptree"

Fish:
  $ deptree completion fish > ~/.config/fish/completions/deptree.fish

PowerShell:
  PS> deptree completion powershell | Out-String | Invoke-Expression`,
		Example: `  # Complete charset names
  deptree --charset <TAB>

  # Complete prefix styles for a flat list
  deptree --prefix <TAB>`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// registerTreeCompletions offers the accepted values of the tree layout flags.
func registerTreeCompletions(cmd *cobra.Command) {
	fixed := func(values ...string) cobra.CompletionFunc {
		return cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp)
	}
	_ = cmd.RegisterFlagCompletionFunc("charset", fixed(
		"utf8\tbox-drawing connectors",
		"ascii\tplain ASCII connectors",
	))
	_ = cmd.RegisterFlagCompletionFunc("prefix", fixed(
		"indent\tindent by depth",
		"depth\tprint the depth before each line",
		"none\tflat list",
	))
}
