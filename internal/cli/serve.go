package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/versegraph/versegraph/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP graph API",
		Long: `Run the HTTP graph API.

Serves the positioned graph at /api/graph/{osis} and facet-filtered views
at /api/graph/{osis}/view. The source and cache backends come from the
config file; the server shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}

			runner, err := c.newRunner(cmd.Context(), cfg, "", false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, cfg.Server.Listen)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config, default :8080)")

	return cmd
}
