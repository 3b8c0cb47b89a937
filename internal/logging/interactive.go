package logging

import (
	"log/slog"
)

// SetupInteractive initializes logging for the full-screen search UI and
// installs the logger as the default. Records go to the log file only;
// anything written to stderr while the alternate screen is active would
// corrupt the display.
func SetupInteractive(cfg Config) (*slog.Logger, func(), error) {
	cfg.WriteToStderr = false

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, nil, err
	}

	slog.SetDefault(logger)
	logger.Debug("interactive logging initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level))

	return logger, cleanup, nil
}
