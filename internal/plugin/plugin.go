// Package plugin implements the host plugin contract on top of the query,
// result, menu and action packages.
//
// A host calls Init once, then Query on every keystroke (possibly from
// several goroutines), LoadContextMenus for a selected row, Execute for a
// chosen action, and Save when the user edits settings in the host UI.
package plugin

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/platform"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/query"
	"github.com/Aman-CERP/everyfind/internal/resources"
	"github.com/Aman-CERP/everyfind/internal/result"
	"github.com/Aman-CERP/everyfind/internal/telemetry"
)

// InitContext is what the host hands the plugin at start-up.
type InitContext struct {
	// PluginDir holds the EverythingSDK directory.
	PluginDir string
	// ConfigDir holds settings.json. Empty means config.DefaultConfigDir().
	ConfigDir string
	// Arch overrides the SDK architecture ("x86" or "x64").
	Arch string
	// Host receives notifications. May be nil.
	Host action.Notifier
}

// Plugin is the host-facing capability set.
type Plugin struct {
	settings  atomic.Pointer[config.Settings]
	configDir string

	client        provider.Client
	providerName  string
	providerReady bool

	os       platform.OS
	catalog  *resources.Catalog
	logger   *slog.Logger
	metrics  *telemetry.QueryMetrics
	host     action.Notifier
	defaults platform.Defaults

	coordinator *query.Coordinator
	resolver    *menu.Resolver
	dispatcher  *action.Dispatcher
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithProvider uses client instead of loading one from settings.
func WithProvider(client provider.Client) Option {
	return func(p *Plugin) {
		p.client = client
	}
}

// WithPlatform replaces the OS collaborators.
func WithPlatform(os platform.OS) Option {
	return func(p *Plugin) {
		p.os = os
	}
}

// WithCatalog sets the user-visible strings.
func WithCatalog(c *resources.Catalog) Option {
	return func(p *Plugin) {
		p.catalog = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plugin) {
		p.logger = l
	}
}

// WithMetrics shares a metrics collector with the caller.
func WithMetrics(m *telemetry.QueryMetrics) Option {
	return func(p *Plugin) {
		p.metrics = m
	}
}

// New creates an uninitialized plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		catalog: resources.Default(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = telemetry.NewQueryMetrics()
	}
	p.settings.Store(config.NewSettings())
	return p
}

// defaultsSource is implemented by platform.Native.
type defaultsSource interface {
	Defaults() platform.Defaults
}

// Init loads settings, locates the provider and wires the pipeline. A
// provider that cannot be loaded is logged here once; every query then
// reports the engine as not running.
func (p *Plugin) Init(ic InitContext) error {
	p.configDir = ic.ConfigDir
	if p.configDir == "" {
		p.configDir = config.DefaultConfigDir()
	}

	s, err := config.Load(p.configDir)
	if err != nil {
		return err
	}
	p.settings.Store(s)

	if p.os == nil {
		p.os = platform.New(p.logger)
	}
	if d, ok := p.os.(defaultsSource); ok {
		p.defaults = d.Defaults()
	} else {
		p.defaults = platform.New(p.logger).Defaults()
	}

	p.host = ic.Host
	if p.client == nil {
		p.client, p.providerName, p.providerReady = p.loadProvider(ic, s)
	} else {
		p.providerName, p.providerReady = "custom", true
	}

	p.coordinator = query.New(p.client, p.Settings,
		query.WithCatalog(p.catalog),
		query.WithMetrics(p.metrics),
		query.WithLogger(p.logger))
	p.resolver = menu.NewResolver(p.defaults, p.catalog)
	p.dispatcher = action.NewDispatcher(p.os, p.host, p.catalog, p.logger)

	p.logger.Info("plugin initialized",
		slog.String("config_dir", p.configDir),
		slog.String("provider", p.providerName),
		slog.Bool("provider_ready", p.providerReady),
		slog.Int("max_search_count", s.MaxSearchCount))
	return nil
}

func (p *Plugin) loadProvider(ic InitContext, s *config.Settings) (provider.Client, string, bool) {
	if s.Provider == config.ProviderRPC {
		return provider.NewRPCClient(s.ProviderSocket, 0, p.logger), config.ProviderRPC, true
	}

	sdkPath := provider.SDKPath(ic.PluginDir, provider.ResolveArch(ic.Arch))
	p.logger.Debug("sdk path", slog.String("path", sdkPath))

	ev, err := provider.LoadEverything(sdkPath, p.logger)
	if err != nil {
		p.logger.Warn("failed to load Everything SDK",
			slog.String("path", sdkPath),
			slog.String("error", err.Error()))
		return provider.Offline{Cause: err}, config.ProviderEverything, false
	}
	return ev, config.ProviderEverything, true
}

// Settings returns the live settings snapshot. Callers must not modify it.
func (p *Plugin) Settings() *config.Settings {
	return p.settings.Load()
}

// ReloadSettings swaps in s. Queries already running keep the snapshot they read.
func (p *Plugin) ReloadSettings(s *config.Settings) {
	if s == nil {
		return
	}
	c := s.Clone()
	c.Normalize()
	p.settings.Store(c)
	p.logger.Debug("settings reloaded", slog.Int("max_search_count", c.MaxSearchCount))
}

// Query returns the rows for text. Superseded queries return no rows.
func (p *Plugin) Query(ctx context.Context, text string) []result.Result {
	if p.coordinator == nil {
		return []result.Result{}
	}
	return p.coordinator.Query(ctx, text)
}

// LoadContextMenus returns the menu for a selected row.
func (p *Plugin) LoadContextMenus(selected result.Result) []menu.Item {
	if p.resolver == nil {
		return []menu.Item{}
	}
	return p.resolver.Resolve(selected, p.settings.Load())
}

// Execute runs a and reports whether the host should hide its list.
func (p *Plugin) Execute(ctx context.Context, a action.Action) bool {
	if p.dispatcher == nil {
		return false
	}
	return p.dispatcher.Execute(ctx, a)
}

// ExecuteWith runs a, sending notifications to n instead of the host.
// The bridge uses it to return notifications to the remote caller.
func (p *Plugin) ExecuteWith(ctx context.Context, a action.Action, n action.Notifier) bool {
	return action.NewDispatcher(p.os, n, p.catalog, p.logger).Execute(ctx, a)
}

// Save persists the current settings.
func (p *Plugin) Save() error {
	return config.Save(p.configDir, p.settings.Load())
}

// Name is the localized plugin title.
func (p *Plugin) Name() string { return p.catalog.Get(resources.PluginName) }

// Description is the localized plugin description.
func (p *Plugin) Description() string { return p.catalog.Get(resources.PluginDescription) }

// ConfigDir is the directory settings are loaded from and saved to.
func (p *Plugin) ConfigDir() string { return p.configDir }

// ProviderName names the provider in use.
func (p *Plugin) ProviderName() string { return p.providerName }

// ProviderReady reports whether the provider loaded at Init. An RPC
// provider is always ready; reachability is decided per query.
func (p *Plugin) ProviderReady() bool { return p.providerReady }

// Metrics returns the query metrics collector.
func (p *Plugin) Metrics() *telemetry.QueryMetrics { return p.metrics }

// Close abandons the live query.
func (p *Plugin) Close() {
	if p.coordinator != nil {
		p.coordinator.Close()
	}
}
