package action

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/Aman-CERP/everyfind/internal/errors"
	"github.com/Aman-CERP/everyfind/internal/platform"
	"github.com/Aman-CERP/everyfind/internal/resources"
)

// Notifier shows a transient message in the host UI.
type Notifier interface {
	Notify(title, subtitle string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, subtitle string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, subtitle string) { f(title, subtitle) }

// Dispatcher executes actions against the OS collaborators.
type Dispatcher struct {
	os       platform.OS
	notifier Notifier
	catalog  *resources.Catalog
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil notifier drops notifications.
func NewDispatcher(os platform.OS, notifier Notifier, catalog *resources.Catalog, logger *slog.Logger) *Dispatcher {
	if notifier == nil {
		notifier = NotifierFunc(func(string, string) {})
	}
	if catalog == nil {
		catalog = resources.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{os: os, notifier: notifier, catalog: catalog, logger: logger}
}

// Execute performs a and reports whether the host should hide its result
// list (or dismiss the menu). Failures the user can work around by picking
// another action keep the list open.
func (d *Dispatcher) Execute(ctx context.Context, a Action) bool {
	if ctx.Err() != nil {
		return false
	}
	if err := a.Validate(); err != nil {
		d.logger.Warn("rejected action", slog.String("kind", string(a.Kind)), slog.String("error", err.Error()))
		return false
	}

	switch a.Kind {
	case KindLaunch:
		return d.launch(a)
	case KindRun:
		return d.run(a)
	case KindCopyText:
		d.logIfFailed(a, d.os.CopyText(a.Text))
		return true
	case KindCopyFile:
		d.logIfFailed(a, d.os.CopyFiles([]string{a.Path}))
		return true
	case KindDelete:
		return d.delete(a)
	case KindCopyDiagnostic:
		d.logIfFailed(a, d.os.CopyText(a.Text))
		d.notifier.Notify(d.catalog.Get(resources.Copied), "")
		return false
	default:
		return false
	}
}

func (d *Dispatcher) launch(a Action) bool {
	err := d.os.Open(a.Path, a.WorkingDir)
	if err == nil {
		return true
	}
	if stderrors.Is(err, platform.ErrCannotStart) {
		d.logger.Info("launch failed", slog.String("path", a.Path), slog.String("error", err.Error()))
		d.notifier.Notify("Plugin: "+d.catalog.Get(resources.PluginName), d.catalog.Get(resources.CantOpen))
		return false
	}
	// Anything else is not a "cannot start" failure; the launch is
	// considered handled.
	d.logger.Warn("launch returned unexpected error", errors.LogAttrs(err)...)
	return true
}

func (d *Dispatcher) run(a Action) bool {
	if err := d.os.Run(a.Command, a.Argument, a.WorkingDir); err != nil {
		d.logger.Info("command failed to start",
			slog.String("command", a.Command),
			slog.String("error", err.Error()))
		d.notifier.Notify(d.catalog.Format(resources.CantStart, a.Path), "")
		return false
	}
	return true
}

func (d *Dispatcher) delete(a Action) bool {
	if err := d.os.Remove(a.Path, a.Recursive); err != nil {
		d.logger.Info("delete failed", errors.LogAttrs(err)...)
		d.notifier.Notify(d.catalog.Format(resources.CantDelete, a.Path), "")
		return false
	}
	return true
}

func (d *Dispatcher) logIfFailed(a Action, err error) {
	if err != nil {
		d.logger.Warn("clipboard action failed",
			slog.String("kind", string(a.Kind)),
			slog.String("error", err.Error()))
	}
}
