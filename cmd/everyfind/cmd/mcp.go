package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/everyfind/internal/logging"
	"github.com/Aman-CERP/everyfind/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout so AI clients can
search the file index (find_files) and inspect file actions (file_actions).

stdout is reserved for protocol traffic; logs go to
~/.everyfind/logs/everyfind.log.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd.Context())
		},
	}
}

func runMCP(ctx context.Context) error {
	cleanup, err := logging.SetupQuietMode(quietLevel())
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer cleanup()

	p, err := newPlugin(nil)
	if err != nil {
		slog.Error("plugin init failed", slog.String("error", err.Error()))
		return err
	}
	defer p.Close()

	srv, err := mcp.NewServer(p, mcp.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	err = srv.Serve(ctx, "stdio")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
