package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/astargrid/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve runs the HTTP API until interrupted:

  GET  /healthz               liveness and version
  POST /v1/search             layout → report JSON
  POST /v1/render?format=png  layout → artifact bytes

Results are cached in Redis when cache.redis_addr is configured, otherwise in
the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if timeout == 0 {
				timeout = c.Config.Server.SearchTimeout.Duration
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))
			printDetail("Press Ctrl+C to stop")

			srv := server.New(runner, logger, server.Config{Addr: addr, SearchTimeout: timeout})
			if err := srv.ListenAndServe(ctx); err != nil {
				return err
			}
			printSuccess("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request search timeout (default from config, 10s)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// displayAddr turns a bare ":port" listen address into a clickable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
