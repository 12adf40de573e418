package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cyclefortytwo/iron-cuckatoo/internal/api"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/metrics"
)

type serveOptions struct {
	addr    string
	timeout time.Duration
	maxBody int64
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cycle search over HTTP",
		Long: `Start an HTTP server exposing the cycle search.

  POST /v1/cycles?length=42     search a binary or JSON edge buffer
  POST /v1/cycles/svg           search and draw the cycles
  GET  /metrics                 Prometheus metrics
  GET  /healthz                 liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "per-request search timeout (0 for none)")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", api.DefaultMaxBody, "request body limit in bytes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOptions) error {
	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Register(reg)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	handlers := api.NewHandlers(runner, c.Logger,
		api.WithTimeout(opts.timeout),
		api.WithMaxBody(opts.maxBody),
		api.WithDefaultLength(c.Config.CycleLength),
	)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handlers, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
