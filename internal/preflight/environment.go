package preflight

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/errors"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/rpc"
)

// loadEverything is replaced in tests.
var loadEverything = func(path string) error {
	_, err := provider.LoadEverything(path, slog.Default())
	return err
}

// CheckSettings loads settings.json. It returns the defaults alongside a
// failed result so later checks still have something to go on.
func (c *Checker) CheckSettings(dir string) (*config.Settings, CheckResult) {
	result := CheckResult{
		Name:     "settings",
		Required: true,
	}

	s, err := config.Load(dir)
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		if e, ok := err.(*errors.Error); ok && e.Suggestion != "" {
			result.Details = e.Suggestion
		}
		return config.NewSettings(), result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%s (provider: %s, max results: %d)",
		config.SettingsPath(dir), s.Provider, s.MaxSearchCount)
	return s, result
}

// CheckProvider verifies the configured index provider can be reached. An
// unreachable engine is a warning: queries report it and recover once it
// starts.
func (c *Checker) CheckProvider(ctx context.Context, t Target, s *config.Settings) CheckResult {
	result := CheckResult{Name: "provider"}

	if s.Provider == config.ProviderRPC {
		conn, err := rpc.Dial(ctx, s.ProviderSocket, c.timeout)
		if err != nil {
			result.Status = StatusWarn
			result.Message = fmt.Sprintf("index service not reachable at %s", s.ProviderSocket)
			result.Details = err.Error()
			return result
		}
		_ = conn.Close()
		result.Status = StatusPass
		result.Message = fmt.Sprintf("index service listening at %s", s.ProviderSocket)
		return result
	}

	path := provider.SDKPath(t.PluginDir, provider.ResolveArch(t.Arch))
	if err := loadEverything(path); err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("Everything SDK not loadable from %s", path)
		result.Details = err.Error()
		return result
	}
	result.Status = StatusPass
	result.Message = fmt.Sprintf("Everything SDK loaded from %s", path)
	return result
}

// CheckBridge reports whether a bridge is listening. Not running is normal
// for in-process hosts, so it never fails.
func (c *Checker) CheckBridge(ctx context.Context, socketPath string) CheckResult {
	result := CheckResult{Name: "bridge", Status: StatusPass}

	conn, err := rpc.Dial(ctx, socketPath, c.timeout)
	if err != nil {
		result.Message = fmt.Sprintf("not running (%s)", socketPath)
		return result
	}
	_ = conn.Close()
	result.Message = fmt.Sprintf("listening at %s", socketPath)
	return result
}
