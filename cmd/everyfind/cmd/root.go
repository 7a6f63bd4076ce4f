// Package cmd provides the CLI commands for everyfind.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/everyfind/internal/logging"
	"github.com/Aman-CERP/everyfind/internal/ui"
	"github.com/Aman-CERP/everyfind/pkg/version"
)

// Persistent flags shared by every command.
var (
	debugMode      bool
	configDir      string
	pluginDir      string
	archHint       string
	loggingCleanup func()
)

// NewRootCmd creates the root command for everyfind CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "everyfind",
		Short: "Instant file and folder search backed by the Everything index",
		Long: `everyfind finds files and folders by name or path fragment using a
pre-built machine-wide index (the Everything engine, or any index service
speaking the everyfind search protocol).

Run it without arguments in a terminal for the interactive finder, or use
'everyfind query' for scripts.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 || !ui.Interactive(os.Stdin, os.Stdout) {
				return cmd.Help()
			}
			return runFind(cmd, "")
		},
	}

	cmd.SetVersionTemplate("everyfind version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.everyfind/logs/")
	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding settings.json (default: $XDG_CONFIG_HOME/everyfind)")
	cmd.PersistentFlags().StringVar(&pluginDir, "plugin-dir", "", "Directory containing EverythingSDK/ (default: the executable's directory)")
	cmd.PersistentFlags().StringVar(&archHint, "arch", "", "SDK architecture: x64 or x86 (default: detected)")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newFindCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newMenuCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging enables debug file logging when --debug is set. serve and
// mcp install their own quiet logging instead.
func startLogging(cmd *cobra.Command, _ []string) error {
	if !debugMode || quietCommand(cmd) {
		return nil
	}

	cfg := logging.DebugConfig()
	// The finder owns the terminal; stderr lines would tear its screen.
	if cmd.Name() == "find" || !cmd.HasParent() {
		cfg.WriteToStderr = false
	}
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("command", cmd.Name()),
		slog.String("version", version.Version))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// quietCommand reports whether cmd owns stdout for a protocol.
func quietCommand(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "serve", "mcp":
		return true
	}
	return false
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
