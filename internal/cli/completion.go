package cli

import (
	"github.com/spf13/cobra"

	gio "github.com/matzehuels/tonegraph/pkg/io"
	"github.com/matzehuels/tonegraph/pkg/layout"
	"github.com/matzehuels/tonegraph/pkg/notation/parsers"
	"github.com/matzehuels/tonegraph/pkg/optimize"
	"github.com/matzehuels/tonegraph/pkg/pipeline"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [" + shells[0] + "|" + shells[1] + "|" + shells[2] + "|" + shells[3] + "]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script on stdout.

Completions cover commands and the values of --parser, --layout, --strategy
and --format.

  $ source <(` + appName + ` completion bash)
  $ ` + appName + ` completion zsh > "${fpath[1]}/_` + appName + `"
  $ ` + appName + ` completion fish > ~/.config/fish/completions/` + appName + `.fish
  PS> ` + appName + ` completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

// registerValueCompletions walks the command tree and offers the known names
// for flags that take a parser, layout, strategy or format.
func registerValueCompletions(cmd *cobra.Command) {
	fixed := func(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}

	graphFormats := make([]string, 0, len(gio.Formats()))
	for _, f := range gio.Formats() {
		graphFormats = append(graphFormats, string(f))
	}
	values := map[string][]string{
		"parser":   parsers.Names(),
		"layout":   layout.Names(),
		"strategy": optimize.Strategies(),
		"format":   graphFormats,
	}
	if cmd.Name() == "export" || cmd.Name() == "render" {
		values["format"] = pipeline.Formats()
	}

	for name, vals := range values {
		if cmd.Flags().Lookup(name) != nil {
			_ = cmd.RegisterFlagCompletionFunc(name, fixed(vals))
		}
	}
	for _, sub := range cmd.Commands() {
		registerValueCompletions(sub)
	}
}
