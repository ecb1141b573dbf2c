package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/hupe1980/vnbgeo"
	"github.com/hupe1980/vnbgeo/metric/prometheus"
	"github.com/hupe1980/vnbgeo/server"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := fromCommand(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return runServe(cmd.Context(), c)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address override")
	return cmd
}

func runServe(ctx context.Context, c *Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(c.Config.Server.Mode)

	var (
		browserOpts []vnbgeo.Option
		routerOpts  = []server.Option{server.WithLogger(c.Logger.Logger)}
	)
	if c.Config.Metrics.Enabled {
		reg := promclient.NewRegistry()
		collector, err := prometheus.New(reg)
		if err != nil {
			return err
		}
		browserOpts = append(browserOpts, vnbgeo.WithMetricsCollector(collector))
		routerOpts = append(routerOpts, server.WithMetricsHandler(prometheus.HandlerFor(reg)))
	}

	b, closeFn, err := openBrowser(ctx, c, browserOpts...)
	if err != nil {
		return err
	}
	defer closeFn()

	if cd, ok := codecFor(c); ok {
		routerOpts = append(routerOpts, server.WithCodec(cd))
	}

	srv := server.New(c.Config.Server.Addr, server.NewRouter(b, routerOpts...),
		server.WithTimeouts(c.Config.Server.ReadTimeout, c.Config.Server.WriteTimeout),
		server.WithServerLogger(c.Logger.Logger),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errCh
}
