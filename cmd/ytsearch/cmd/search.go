package cmd

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ytsearch/internal/output"
	"github.com/Aman-CERP/ytsearch/internal/search"
	"github.com/Aman-CERP/ytsearch/internal/ui"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	order   string
	json    bool
	noColor bool
}

// searchOutput is the --json shape of a search.
type searchOutput struct {
	Query   string            `json:"query"`
	Order   youtube.SortOrder `json:"order"`
	Count   int               `json:"count"`
	Results []search.Result   `json:"results"`
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run one search and print the results",
		Long: `Run one search, fetch every result's comment threads and print them.

An empty query is sent as-is. Comment fetch failures never fail the search;
the affected video is shown with no comments.`,
		Example: `  ytsearch search "golang generics"
  ytsearch search "golang generics" --order date
  ytsearch search gophercon --json | jq '.results[].title'`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.order, "order", "o", "", "Sort order: relevance, date, rating (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colors")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	order, err := resolveOrder(cfg, opts.order)
	if err != nil {
		return err
	}

	logger, cleanup := setupLogging(cfg)
	defer cleanup()

	start := time.Now()
	logger.Info("search_started", slog.String("query", query), slog.String("order", string(order)))

	results, err := search.Collect(ctx, newClient(cfg, logger), query, order, logger)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		logger.Info("search_canceled", slog.String("query", query))
		return nil
	}

	logger.Info("search_complete",
		slog.String("query", query),
		slog.Int("results", len(results)),
		slog.Duration("duration", time.Since(start)))

	if opts.json {
		return output.New(cmd.OutOrStdout()).JSON(searchOutput{
			Query:   query,
			Order:   order,
			Count:   len(results),
			Results: results,
		})
	}

	uiCfg := ui.NewConfig(cmd.OutOrStdout(), ui.WithForcePlain(true), ui.WithNoColor(opts.noColor || ui.DetectNoColor()))
	ui.NewPlainRenderer(uiCfg).Results(query, order, results)
	return nil
}
