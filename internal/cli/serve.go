package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/metrics"
	"github.com/matzehuels/flowlayout/pkg/observability"
	"github.com/matzehuels/flowlayout/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		noMetrics   bool
		maxBodySize int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine over HTTP.

The API accepts JSON graphs under /v1 and exposes Prometheus metrics at
/metrics. The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.config.Server.Addr
			}

			opts := server.Options{Logger: c.Logger, MaxBodyBytes: maxBodySize}
			if !noMetrics {
				reg := metrics.NewRegistry()
				observability.SetLayoutHooks(reg)
				observability.SetCacheHooks(reg)
				observability.SetHTTPHooks(reg)
				defer observability.Reset()
				opts.Metrics = reg.Handler()
			}

			eng, store, err := c.newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			return server.New(eng, opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().Int64Var(&maxBodySize, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	return cmd
}
