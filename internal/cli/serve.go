package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/config"
	"github.com/matzehuels/tonegraph/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve the pipeline over HTTP.

Every stage is a POST under /v1 taking a JSON graph (or raw notation for
/v1/extract/{parser}); named graphs live under /v1/graphs. The server shuts
down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := []server.Option{
				server.WithLogger(c.Logger),
				server.WithCompareOptions(c.cfg.CompareOptions()),
			}
			var srv *server.Server
			if noStore {
				srv = server.New(runner, nil, opts...)
			} else {
				st, err := c.newStore(ctx)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				defer st.Close()
				srv = server.New(runner, st, opts...)
			}

			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(ctx, addr, c.cfg.Server.ReadTimeout, c.cfg.Server.WriteTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, or "+config.DefaultServerAddr+")")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the /v1/graphs endpoints")
	return cmd
}
