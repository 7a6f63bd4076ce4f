package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/daemon"
	"github.com/Aman-CERP/everyfind/internal/logging"
	"github.com/Aman-CERP/everyfind/internal/profiling"
)

func newServeCmd() *cobra.Command {
	var (
		socket string
		prof   profiling.Options
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the host bridge",
		Long: `Run the host bridge: a JSON-RPC 2.0 server on a unix socket that exposes
the plugin (query, context_menus, execute, save, status) to an
out-of-process host.

The bridge reloads settings.json when it changes on disk. Logs go to
~/.everyfind/logs/everyfind.log only.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), socket, prof)
		},
	}

	cmd.Flags().StringVar(&socket, "socket", "", "Socket path (default: ~/.everyfind/bridge.sock)")
	cmd.Flags().StringVar(&prof.CPUPath, "cpuprofile", "", "Write a CPU profile covering the bridge's lifetime")
	cmd.Flags().StringVar(&prof.HeapPath, "memprofile", "", "Write a heap profile on shutdown")
	cmd.Flags().StringVar(&prof.GoroutinePath, "goroutineprofile", "", "Write goroutine stacks on shutdown")
	return cmd
}

func runServe(ctx context.Context, socket string, prof profiling.Options) error {
	cleanup, err := logging.SetupQuietMode(quietLevel())
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer cleanup()

	session, err := profiling.Start(prof)
	if err != nil {
		return err
	}
	if prof.Enabled() {
		slog.Info("profiling enabled",
			slog.String("cpu", prof.CPUPath),
			slog.String("heap", prof.HeapPath),
			slog.String("goroutine", prof.GoroutinePath))
	}
	defer func() {
		if err := session.Stop(); err != nil {
			slog.Warn("profiling failed", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := newPlugin(nil)
	if err != nil {
		slog.Error("plugin init failed", slog.String("error", err.Error()))
		return err
	}
	defer p.Close()

	d, err := daemon.NewDaemon(bridgeConfig(socket), p, daemon.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	// The settings file may not exist yet; its directory must.
	if err := os.MkdirAll(p.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	watcher, err := config.NewWatcher(p.ConfigDir(), slog.Default())
	if err != nil {
		return err
	}
	defer watcher.Stop()
	watcher.OnChange(p.ReloadSettings)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.Start(gctx)
	})
	g.Go(func() error {
		if err := watcher.Start(); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		mem := profiling.MemStats()
		slog.Info("bridge stopped",
			slog.String("heap_alloc", profiling.FormatBytes(mem.HeapAlloc)),
			slog.Uint64("gc_cycles", uint64(mem.NumGC)))
		return nil
	}
	return err
}
