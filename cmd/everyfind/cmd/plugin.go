package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/daemon"
	"github.com/Aman-CERP/everyfind/internal/output"
	"github.com/Aman-CERP/everyfind/internal/plugin"
)

// bridgeCallTimeout bounds CLI requests to a running bridge.
const bridgeCallTimeout = 10 * time.Second

func resolvedConfigDir() string {
	if configDir != "" {
		return configDir
	}
	return config.DefaultConfigDir()
}

// resolvedPluginDir defaults to the executable's directory, where a host
// installation keeps EverythingSDK/.
func resolvedPluginDir() string {
	if pluginDir != "" {
		return pluginDir
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// newPlugin creates and initializes an in-process plugin. host receives
// notifications raised by actions; nil drops them.
func newPlugin(host action.Notifier) (*plugin.Plugin, error) {
	p := plugin.New(plugin.WithLogger(slog.Default()))
	err := p.Init(plugin.InitContext{
		PluginDir: resolvedPluginDir(),
		ConfigDir: resolvedConfigDir(),
		Arch:      archHint,
		Host:      host,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// printNotifier shows host notifications as warnings on w.
func printNotifier(w io.Writer) action.Notifier {
	out := output.New(w)
	return action.NotifierFunc(func(title, subtitle string) {
		out.Warningf("%s: %s", title, subtitle)
	})
}

// bridgeConfig returns the bridge configuration, with the socket (and the
// PID file next to it) moved when socket is set.
func bridgeConfig(socket string) daemon.Config {
	cfg := daemon.DefaultConfig()
	if socket != "" {
		cfg.SocketPath = socket
		cfg.PIDPath = filepath.Join(filepath.Dir(socket), "bridge.pid")
	}
	return cfg
}

// quietLevel picks the log level for serve and mcp: --debug wins, then the
// settings file.
func quietLevel() string {
	if debugMode {
		return "debug"
	}
	s, err := config.Load(resolvedConfigDir())
	if err != nil {
		return "info"
	}
	return s.LogLevel
}
