package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/everyfind/internal/daemon"
	"github.com/Aman-CERP/everyfind/internal/output"
	"github.com/Aman-CERP/everyfind/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var (
		jsonOutput bool
		socket     string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show host bridge status",
		Long: `Show whether the host bridge is running, which provider it uses and its
query counters (total, superseded, engine unavailable, faults).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := collectStatus(cmd.Context(), bridgeConfig(socket))
			r := ui.NewStatusRenderer(cmd.OutOrStdout(), !output.IsTerminal(cmd.OutOrStdout()) || ui.DetectNoColor())
			if jsonOutput {
				return r.RenderJSON(info)
			}
			return r.Render(info)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&socket, "socket", "", "Bridge socket path (default: ~/.everyfind/bridge.sock)")
	return cmd
}

// collectStatus asks the bridge for its status. An unreachable bridge is
// reported as stopped rather than as an error.
func collectStatus(ctx context.Context, cfg daemon.Config) ui.StatusInfo {
	info := ui.StatusInfo{SocketPath: cfg.SocketPath}

	ctx, cancel := context.WithTimeout(ctx, bridgeCallTimeout)
	defer cancel()

	st, err := daemon.NewClient(cfg).Status(ctx)
	if err != nil {
		return info
	}

	info.Running = st.Running
	info.PID = st.PID
	info.Uptime = st.Uptime
	info.Provider = st.Provider
	info.ProviderReady = st.ProviderReady
	info.Queries = st.Queries
	info.Superseded = st.Superseded
	info.Unavailable = st.Unavailable
	info.Faults = st.Faults
	for _, t := range st.TopTerms {
		info.TopTerms = append(info.TopTerms, ui.TermInfo{Term: t.Term, Count: t.Count})
	}
	return info
}
