package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/everyfind/internal/daemon"
	"github.com/Aman-CERP/everyfind/internal/output"
	"github.com/Aman-CERP/everyfind/internal/result"
)

type queryOptions struct {
	format string
	local  bool
	limit  int
	socket string
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run one query and print the results",
		Long: `Run a single query and print the rows a host would display.

When a bridge ('everyfind serve') is running the query goes through it, so
it shares the bridge's provider and settings. Use --local to always search
in-process.`,
		Example: `  everyfind query report
  everyfind query "ext:pdf invoice" --format json --limit 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.local, "local", false, "Search in-process even when a bridge is running")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Print at most this many rows (0: the configured maximum)")
	cmd.Flags().StringVar(&opts.socket, "socket", "", "Bridge socket path (default: ~/.everyfind/bridge.sock)")

	return cmd
}

func runQuery(cmd *cobra.Command, text string, opts queryOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (supported: text, json)", opts.format)
	}

	rows, err := queryRows(cmd.Context(), text, opts)
	if err != nil {
		return err
	}
	if opts.limit > 0 && len(rows) > opts.limit {
		rows = rows[:opts.limit]
	}

	out := output.New(cmd.OutOrStdout())
	if opts.format == "json" {
		return out.JSON(result.ToDTOs(rows))
	}
	out.Results(rows)
	return nil
}

func queryRows(ctx context.Context, text string, opts queryOptions) ([]result.Result, error) {
	if !opts.local {
		client := daemon.NewClient(bridgeConfig(opts.socket))
		if client.IsRunning() {
			ctx, cancel := context.WithTimeout(ctx, bridgeCallTimeout)
			defer cancel()
			rows, err := client.Query(ctx, text)
			if err == nil {
				return rows, nil
			}
			slog.Warn("bridge query failed, searching locally", slog.String("error", err.Error()))
		}
	}

	p, err := newPlugin(nil)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Query(ctx, text), nil
}
