package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gradekit/gradekit/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the grading REST API server",
		Long: `Start the grading REST API server.

Endpoints:
  GET  /health              Server status and the flattened model catalog
  POST /api/grade           Grade one submission
  GET  /api/models          Local inference server tag listing
  POST /api/models/refresh  Re-query every provider's model catalog

Hosted provider credentials are read from the environment (or a .env
file) and validated against each provider at startup; keys that fail
validation are dropped with a warning. The server shuts down gracefully
on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Server mode logs JSON, keeping the level the --debug flag chose.
			level := slog.LevelInfo
			if slog.Default().Enabled(ctx, slog.LevelDebug) {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			app, err := newApp(ctx, true)
			if err != nil {
				return err
			}

			logger.Info("credentials loaded", "configured", app.creds.ConfiguredNames())

			// Warm the catalog so /health answers immediately.
			app.reg.Refresh(ctx)

			if host == "" {
				host = app.cfg.Server.Host
			}
			if port == 0 {
				port = app.cfg.Server.Port
			}

			srv := webserver.New(webserver.Config{
				Host:    host,
				Port:    port,
				Origins: app.cfg.Server.Origins,
				Logger:  logger,
			}, app.eval, app.reg, app.gw)

			logger.Info("grading server listening", "addr", srv.Addr())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Bind address (default from .gradekit.yaml)")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from .gradekit.yaml)")

	return cmd
}
