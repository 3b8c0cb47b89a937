package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ytsearch/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the search tools to an MCP client over stdio",
		Long: `Serve the search pipeline as Model Context Protocol tools on stdin/stdout.

Tools:
  search_videos  keyword search with each video's first page of comments
  get_comments   first page of comment threads for a video
  get_rating     the authorised user's rating of a video

Stdout carries the protocol. Logs go to the log file, and to stderr with --debug.`,
		Example: `  # Register with an MCP client
  claude mcp add ytsearch -- ytsearch mcp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd.Context())
		},
	}
}

func runMCP(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	logger, cleanup := setupLogging(cfg)
	defer cleanup()

	srv, err := mcp.NewServer(newClient(cfg, logger), logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
