package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/ytsearch/configs"
	"github.com/Aman-CERP/ytsearch/internal/config"
	"github.com/Aman-CERP/ytsearch/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long: `Manage the user configuration file.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/ytsearch/config.yaml, or --config)
  3. Environment variables YTSEARCH_API_KEY and YTSEARCH_API_VERSION`,
		Example: `  # Create user config from template
  ytsearch config init

  # Show effective configuration
  ytsearch config show

  # Print user config file path
  ytsearch config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		Long: `Create the user configuration file from a template.

The file is created at ~/.config/ytsearch/config.yaml
(or $XDG_CONFIG_HOME/ytsearch/config.yaml if XDG_CONFIG_HOME is set).
With --force an existing file is backed up and rewritten with every
current setting filled in, keeping the values it already had. A file that
cannot be loaded is replaced with the template instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rewrite an existing configuration (a backup is kept)")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging defaults, the config file
and the environment. The API key is masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON (the API key is omitted)")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), targetConfigPath())
			return err
		},
	}
}

// targetConfigPath is --config when set, otherwise the user config path.
func targetConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GetUserConfigPath()
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())
	path := targetConfigPath()

	if _, err := os.Stat(path); err == nil {
		if !force {
			out.Warning("Configuration already exists")
			out.Statusf("📁", "Location: %s", path)
			out.Newline()
			out.Status("💡", "Use --force to rewrite it with all current settings (a backup is kept)")
			return nil
		}
		return upgradeConfig(out, path)
	}

	if err := writeTemplate(path); err != nil {
		return err
	}

	out.Successf("Created configuration at %s", path)
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Statusf("", "  1. Set api.key in the file, or export %s", config.EnvAPIKey)
	out.Status("", "  2. Run 'ytsearch config show' to verify")

	return nil
}

// upgradeConfig backs up the file at path and rewrites it with its own
// values over the defaults. Environment overrides are never written.
func upgradeConfig(out *output.Writer, path string) error {
	backup, err := config.BackupConfig(path)
	if err != nil {
		return fmt.Errorf("failed to backup config: %w", err)
	}
	out.Statusf("💾", "Backup: %s", backup)

	cfg, err := config.LoadFile(path)
	if err != nil {
		out.Warningf("Existing configuration is unusable, replacing it with the template: %v", err)
		if err := writeTemplate(path); err != nil {
			return err
		}
		out.Successf("Replaced configuration at %s", path)
		return nil
	}

	if err := cfg.WriteYAML(path); err != nil {
		return err
	}
	out.Successf("Upgraded configuration at %s", path)
	return nil
}

func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configs.UserConfigTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	redacted := cfg.Redacted()

	out := output.New(cmd.OutOrStdout())
	if jsonOutput {
		return out.JSON(redacted)
	}

	data, err := yaml.Marshal(redacted)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	out.Statusf("📁", "Source: %s", targetConfigPath())
	out.Newline()
	out.Code(string(data))
	return nil
}
