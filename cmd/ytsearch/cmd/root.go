// Package cmd provides the CLI commands for ytsearch.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/ytsearch/internal/config"
	yterrors "github.com/Aman-CERP/ytsearch/internal/errors"
	"github.com/Aman-CERP/ytsearch/internal/logging"
	"github.com/Aman-CERP/ytsearch/internal/search"
	"github.com/Aman-CERP/ytsearch/internal/ui"
	"github.com/Aman-CERP/ytsearch/internal/youtube"
	"github.com/Aman-CERP/ytsearch/pkg/version"
)

// Persistent flags.
var (
	debugMode  bool
	configPath string
)

// NewRootCmd creates the root command for the ytsearch CLI.
func NewRootCmd() *cobra.Command {
	var sortFlag string

	cmd := &cobra.Command{
		Use:   "ytsearch [query]",
		Short: "Search videos from the terminal",
		Long: `ytsearch searches a video platform's Data API as you type.

Run it without a subcommand in a terminal to open the interactive search
screen. Every keystroke and sort change re-runs the search after a short
quiet period. Press Enter to search immediately, Tab to change the sort
order, Esc to quit.

The API key is read from YTSEARCH_API_KEY or api.key in the config file.`,
		Example: `  # Interactive search
  ytsearch

  # Interactive search with an initial query, newest first
  ytsearch --sort date golang generics

  # One-shot search for scripts
  ytsearch search "golang generics" --json`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), cmd, strings.Join(args, " "), sortFlag)
		},
	}

	cmd.SetVersionTemplate("ytsearch version {{.Version}}\n")

	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "Initial sort order: relevance, date, rating (default from config)")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging (mirrored to stderr outside the interactive screen)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/ytsearch/config.yaml)")

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newCommentsCmd())
	cmd.AddCommand(newRatingCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

// printError writes err to w. With --debug, typed errors also show their
// details and cause.
func printError(w io.Writer, err error) {
	if _, ok := yterrors.As(err); ok {
		if debugMode {
			_, _ = fmt.Fprintln(w, yterrors.FormatForUser(err, true))
			return
		}
		_, _ = fmt.Fprint(w, yterrors.FormatForCLI(err))
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}

// runInteractive opens the search screen. Without a terminal it falls back
// to a one-shot search when a query was given.
func runInteractive(ctx context.Context, cmd *cobra.Command, query, sortFlag string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	uiCfg := ui.NewConfig(cmd.OutOrStdout())
	if !uiCfg.Interactive() {
		if query == "" {
			return yterrors.ValidationError("interactive search needs a terminal", nil).
				WithSuggestion("Use 'ytsearch search <query>' in scripts and pipes")
		}
		return runSearch(ctx, cmd, query, searchOptions{order: sortFlag})
	}

	order, err := resolveOrder(cfg, sortFlag)
	if err != nil {
		return err
	}
	delay, err := cfg.DebounceDelay()
	if err != nil {
		return err
	}

	logger, cleanup, err := logging.SetupInteractive(logConfig(cfg))
	if err != nil {
		logger, cleanup = logging.Discard(), func() {}
	}
	defer cleanup()

	tui, err := ui.NewTUI(uiCfg)
	if err != nil {
		return err
	}

	orch := search.New(newClient(cfg, logger),
		search.WithDebounce(delay),
		search.WithObserver(tui.Observe),
		search.WithLogger(logger),
		search.WithSort(order))
	defer orch.Close()

	if query != "" {
		orch.SetQuery(query)
		go orch.Submit()
	}

	logger.Info("interactive_started", slog.String("order", string(order)))
	return tui.Run(ctx, orch)
}

// loadConfig loads configuration from --config or the user config path.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// resolveOrder returns the flag's sort order, or the configured default.
func resolveOrder(cfg *config.Config, flag string) (youtube.SortOrder, error) {
	if flag == "" {
		flag = cfg.Search.DefaultOrder
	}
	return youtube.ParseSortOrder(flag)
}

// logConfig derives the log file settings from cfg and --debug.
func logConfig(cfg *config.Config) logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Logging.Level
	if debugMode {
		lc = logging.DebugConfig()
	}
	if cfg.Logging.MaxSizeMB > 0 {
		lc.MaxSizeMB = cfg.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxFiles > 0 {
		lc.MaxFiles = cfg.Logging.MaxFiles
	}
	return lc
}

// setupLogging opens the log file for one-shot commands. Logging is
// best-effort: a log file that cannot be opened never fails a command.
func setupLogging(cfg *config.Config) (*slog.Logger, func()) {
	logger, cleanup, err := logging.Setup(logConfig(cfg))
	if err != nil {
		return logging.Discard(), func() {}
	}
	return logger, cleanup
}

func newClient(cfg *config.Config, logger *slog.Logger) *youtube.Client {
	return youtube.New(youtube.Config{
		APIKey:     cfg.API.Key,
		APIVersion: cfg.API.Version,
		BaseURL:    cfg.API.BaseURL,
	}, youtube.WithLogger(logger))
}
