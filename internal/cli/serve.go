package cli

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trifractal/internal/server"
	"github.com/matzehuels/trifractal/pkg/observability/prom"
	"github.com/matzehuels/trifractal/pkg/session"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	cache       cacheOpts
	addr        string
	maxSessions int
	idleTTL     time.Duration
	noMetrics   bool
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		idleTTL: session.DefaultIdleTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive sessions over HTTP",
		Long: `Serve exposes sessions over a JSON API. Each request is one event:
select a level, show all, reset, change the depth, resize or hit-test.
Views are served as SVG, PNG, PDF, JSON or DOT. Prometheus metrics are
exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, opts.cache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sopts := server.Options{
				Config:   cfg,
				Sessions: session.NewRegistry(opts.maxSessions),
				Runner:   runner,
				IdleTTL:  opts.idleTTL,
				Logger:   c.Logger,
			}
			if !opts.noMetrics {
				prom.New(prometheus.DefaultRegisterer).Install()
				sopts.Metrics = promhttp.Handler()
			}

			srv, err := server.New(sopts)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, opts.addr)
		},
	}

	opts.cache.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().IntVar(&opts.maxSessions, "max-sessions", 0, "cap on live sessions (0 for no limit)")
	cmd.Flags().DurationVar(&opts.idleTTL, "idle-ttl", opts.idleTTL, "evict sessions unused for this long")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}
