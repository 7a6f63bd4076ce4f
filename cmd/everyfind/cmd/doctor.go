package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/everyfind/internal/logging"
	"github.com/Aman-CERP/everyfind/internal/output"
	"github.com/Aman-CERP/everyfind/internal/preflight"
)

func newDoctorCmd() *cobra.Command {
	var (
		jsonOutput bool
		verbose    bool
		socket     string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the installation",
		Long: `Check that settings.json is valid, the config and log directories are
writable, the index provider can be reached and the process limits are
sufficient. Exits non-zero when a required check fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := preflight.Target{
				ConfigDir:  resolvedConfigDir(),
				PluginDir:  resolvedPluginDir(),
				Arch:       archHint,
				LogDir:     logging.DefaultLogDir(),
				BridgePath: bridgeConfig(socket).SocketPath,
			}
			checker := preflight.New(
				preflight.WithOutput(cmd.OutOrStdout()),
				preflight.WithVerbose(verbose))

			results := checker.RunAll(cmd.Context(), target)
			if jsonOutput {
				if err := output.New(cmd.OutOrStdout()).JSON(results); err != nil {
					return err
				}
			} else {
				checker.PrintResults(results)
			}

			if checker.HasCriticalFailures(results) {
				return fmt.Errorf("doctor found problems: %s", checker.SummaryStatus(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show details for passing checks")
	cmd.Flags().StringVar(&socket, "socket", "", "Bridge socket path (default: ~/.everyfind/bridge.sock)")
	return cmd
}
