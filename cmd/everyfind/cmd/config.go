package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/everyfind/configs"
	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage plugin settings",
		Long: `Manage settings.json: the editor, custom context menu commands, the
result cap, the working directory policy and the index provider.

Settings precedence (lowest to highest):
  1. Hardcoded defaults
  2. <config-dir>/settings.json
  3. Environment variables (EVERYFIND_*)`,
		Example: `  # Create settings.json from the template
  everyfind config init

  # Show effective settings
  everyfind config show --format yaml

  # Print the settings file path
  everyfind config path`,
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
		Short: "Create settings.json from the template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing settings (a backup is kept)")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective settings",
		Long:  `Show the settings in effect after applying defaults, the settings file and environment overrides.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.SettingsPath(resolvedConfigDir()))
			return err
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())
	dir := resolvedConfigDir()
	path := config.SettingsPath(dir)

	created := false
	err := config.WithLock(cmd.Context(), dir, func() error {
		if _, err := os.Stat(path); err == nil {
			if !force {
				return nil
			}
			backup, err := config.BackupSettings(dir)
			if err != nil {
				return fmt.Errorf("failed to backup settings: %w", err)
			}
			out.Statusf("💾", "Backup: %s", backup)
		}
		if err := os.WriteFile(path, []byte(configs.SettingsTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write settings: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return err
	}

	if !created {
		out.Warning("Settings already exist")
		out.Statusf("📁", "Location: %s", path)
		out.Status("💡", "Use --force to replace them with the template")
		return nil
	}
	out.Success("Created settings")
	out.Statusf("📁", "Location: %s", path)
	out.Status("📋", "Edit the file, then run 'everyfind config show' to verify")
	return nil
}

func runConfigShow(cmd *cobra.Command, format string) error {
	s, err := config.Load(resolvedConfigDir())
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := s.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	case "yaml":
		data, err := s.ToYAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (supported: json, yaml)", format)
	}
}
