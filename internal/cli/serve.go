package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rrgraph/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints:
  POST /api/v1/layout            sectors → layout JSON
  POST /api/v1/render/{format}   sectors → svg, png, pdf, json or msgpack
  POST /api/v1/classify          sectors → quadrant per sector
  GET  /api/v1/session           websocket hover session
  GET  /metrics                  Prometheus metrics
  GET  /health                   liveness and build info

Settings come from the [server] and [cache] sections of the config file and
RRGRAPH_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if addr != "" {
				c.Config.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			logger.Info("cache ready", "backend", c.Config.Cache.Backend, "no_cache", noCache)
			logger.Debug("cors", "origins", strings.Join(c.Config.Server.AllowedOrigins, ","))

			return server.New(c.Config, runner, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
