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

// ratingOutput is the --json shape of a rating.
type ratingOutput struct {
	VideoID string         `json:"video_id"`
	Rating  youtube.Rating `json:"rating"`
	Score   int            `json:"score"`
}

func newRatingCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rating <videoId>",
		Short: "Print the caller's rating of a video",
		Long: `Print the rating (like, dislike, none) recorded for a video and its
numeric score: like = +1, dislike = -1, anything else = 0.`,
		Example: `  ytsearch rating dQw4w9WgXcQ
  ytsearch rating dQw4w9WgXcQ --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRating(cmd.Context(), cmd, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output rating as JSON")

	return cmd
}

func runRating(ctx context.Context, cmd *cobra.Command, videoID string, jsonOutput bool) error {
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

	rating, err := newClient(cfg, logger).FetchRating(ctx, videoID)
	if err != nil {
		logger.Warn("rating_failed", append([]any{slog.String("video_id", videoID)}, yterrors.LogAttrs(err)...)...)
		return err
	}

	if jsonOutput {
		return output.New(cmd.OutOrStdout()).JSON(ratingOutput{
			VideoID: videoID,
			Rating:  rating,
			Score:   rating.Score(),
		})
	}
	ui.NewPlainRenderer(ui.NewConfig(cmd.OutOrStdout(), ui.WithForcePlain(true))).Rating(videoID, rating)
	return nil
}
