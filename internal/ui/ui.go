// Package ui renders search results: an interactive bubbletea program for
// terminals and a plain text renderer for pipes and CI.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Config configures rendering.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain text output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// NewConfig creates a Config for output. NO_COLOR is honoured.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{
		Output:  output,
		NoColor: DetectNoColor(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Interactive reports whether the interactive TUI can run on cfg.Output.
func (c Config) Interactive() bool {
	return !c.ForcePlain && IsTTY(c.Output) && !DetectCI()
}

// Styles returns the styles matching the color preference.
func (c Config) Styles() Styles {
	return GetStyles(c.NoColor)
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
