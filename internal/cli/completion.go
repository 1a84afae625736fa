package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/engine"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for flowlayout.

Bash:
  $ source <(flowlayout completion bash)

Zsh:
  $ flowlayout completion zsh > "${fpath[1]}/_flowlayout"

Fish:
  $ flowlayout completion fish > ~/.config/fish/completions/flowlayout.fish

PowerShell:
  PS> flowlayout completion powershell | Out-String | Invoke-Expression

Algorithm, direction and template flags complete to their known values.`,
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
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeAlgorithms offers the built-in algorithm names.
func completeAlgorithms(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, a := range layout.Builtins() {
		if name := string(a.Name()); strings.HasPrefix(name, prefix) {
			out = append(out, name+"\t"+a.Description())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeDirections offers the four flow directions.
func completeDirections(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, d := range []layout.Direction{layout.TopBottom, layout.BottomTop, layout.LeftRight, layout.RightLeft} {
		if strings.HasPrefix(string(d), strings.ToUpper(prefix)) {
			out = append(out, string(d))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeTemplates offers the built-in templates and those from the
// loaded config file.
func (c *CLI) completeTemplates(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	templates := append(engine.BuiltinTemplates(), c.config.EngineTemplates()...)
	var out []string
	for _, t := range templates {
		if strings.HasPrefix(t.Name, prefix) {
			out = append(out, t.Name+"\t"+t.Description)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// registerConfigCompletions attaches value completion to the flags added by
// configFlags.register.
func (c *CLI) registerConfigCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("algorithm", completeAlgorithms)
	_ = cmd.RegisterFlagCompletionFunc("direction", completeDirections)
	_ = cmd.RegisterFlagCompletionFunc("template", c.completeTemplates)
}
