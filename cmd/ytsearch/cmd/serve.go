package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ytsearch/internal/logging"
	"github.com/Aman-CERP/ytsearch/internal/output"
	"github.com/Aman-CERP/ytsearch/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search pipeline as a JSON HTTP API",
		Long: `Serve the search pipeline over HTTP.

Routes:
  GET /api/search?q=<query>&order=<relevance|date|rating>
  GET /api/videos/{id}/comments
  GET /api/videos/{id}/rating
  GET /healthz
  GET /metrics     Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  ytsearch serve
  ytsearch serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config server.addr)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	lc := logConfig(cfg)
	lc.WriteToStderr = true
	logger, cleanup, err := logging.Setup(lc)
	if err != nil {
		return err
	}
	defer cleanup()

	out := output.New(cmd.OutOrStdout())
	out.Status("🌐", "Serving the search API")
	out.KeyValue(
		[2]string{"Address", "http://" + addr},
		[2]string{"Metrics", "http://" + addr + "/metrics"},
		[2]string{"Log file", lc.FilePath},
	)
	out.Status("", "Press Ctrl+C to stop")

	srv := server.New(newClient(cfg, logger), logger)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}

	logger.Info("serve_stopped", slog.String("addr", addr))
	out.Success("Server stopped")
	return nil
}
