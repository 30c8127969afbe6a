package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/buildinfo"
)

// versionCommand creates the version command.
func (c *CLI) versionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return writeJSON(cmd, buildinfo.Get())
			}
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
