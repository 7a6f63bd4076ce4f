package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is called with the reloaded settings after the file changes.
type ChangeHandler func(s *Settings)

// Watcher watches the settings file and reloads it on change.
// Changes are debounced (300ms) since editors often write in several steps.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	handlers []ChangeHandler
	debounce time.Duration
	logger   *slog.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

// NewWatcher creates a watcher for <dir>/settings.json.
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		dir:      dir,
		watcher:  w,
		debounce: 300 * time.Millisecond,
		logger:   logger,
		stopChan: make(chan struct{}),
	}, nil
}

// OnChange registers a handler to be called when settings change.
func (cw *Watcher) OnChange(handler ChangeHandler) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.handlers = append(cw.handlers, handler)
}

// Start begins watching. The directory is watched rather than the file so
// atomic rename-on-save is seen.
func (cw *Watcher) Start() error {
	if err := cw.watcher.Add(cw.dir); err != nil {
		return err
	}

	go cw.watchLoop()

	cw.logger.Info("settings watcher started", slog.String("dir", cw.dir))
	return nil
}

// Stop halts the watcher. Safe to call more than once.
func (cw *Watcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.stopChan)
		_ = cw.watcher.Close()
		cw.logger.Info("settings watcher stopped")
	})
}

func (cw *Watcher) watchLoop() {
	var debounceTimer *time.Timer
	target := SettingsPath(cw.dir)

	for {
		select {
		case <-cw.stopChan:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(cw.debounce, cw.reload)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("settings watcher error", slog.String("error", err.Error()))
		}
	}
}

func (cw *Watcher) reload() {
	select {
	case <-cw.stopChan:
		return
	default:
	}

	cw.logger.Info("settings file changed, reloading", slog.String("dir", cw.dir))

	s, err := Load(cw.dir)
	if err != nil {
		cw.logger.Error("settings reload failed", slog.String("error", err.Error()))
		return
	}

	cw.mu.Lock()
	handlers := make([]ChangeHandler, len(cw.handlers))
	copy(handlers, cw.handlers)
	cw.mu.Unlock()

	for _, h := range handlers {
		h(s)
	}
}
