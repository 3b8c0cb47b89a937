package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/output"
	"github.com/Aman-CERP/ytsearch/internal/ui"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

func newCommentsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "comments <videoId>",
		Short: "Print a video's comment threads",
		Long: `Print the first page of a video's comment threads.

The total counts top-level comments plus their replies.`,
		Example: `  ytsearch comments dQw4w9WgXcQ
  ytsearch comments dQw4w9WgXcQ --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComments(cmd.Context(), cmd, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output comments as JSON")

	return cmd
}

func runComments(ctx context.Context, cmd *cobra.Command, videoID string, jsonOutput bool) error {
	if err := youtube.ValidateVideoID(videoID); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	logger, cleanup := setupLogging(cfg)
	defer cleanup()

	page, err := newClient(cfg, logger).FetchComments(ctx, videoID)
	if err != nil {
		logger.Warn("comments_failed", append([]any{slog.String("video_id", videoID)}, yterrors.LogAttrs(err)...)...)
		return err
	}

	if jsonOutput {
		return output.New(cmd.OutOrStdout()).JSON(page)
	}
	ui.NewPlainRenderer(ui.NewConfig(cmd.OutOrStdout(), ui.WithForcePlain(true))).Comments(videoID, page)
	return nil
}
