package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrAlreadyRunning is returned by Start when another bridge answers on the socket.
var ErrAlreadyRunning = errors.New("bridge is already running")

// Daemon owns the bridge server and its PID file.
type Daemon struct {
	cfg     Config
	handler Handler
	logger  *slog.Logger
	pidFile *PIDFile
	server  *Server
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Daemon) {
		d.logger = l
	}
}

// NewDaemon creates a bridge serving h.
func NewDaemon(cfg Config, h Handler, opts ...Option) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if h == nil {
		return nil, fmt.Errorf("invalid config: handler is required")
	}

	d := &Daemon{
		cfg:     cfg,
		handler: h,
		logger:  slog.Default(),
		pidFile: NewPIDFile(cfg.PIDPath),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.server = NewServer(cfg.SocketPath, cfg.Timeout, h, d.logger)
	return d, nil
}

// Start serves until ctx is cancelled. It returns ctx's error after a clean
// shutdown. Open connections get ShutdownGracePeriod to finish.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.cfg.EnsureDir(); err != nil {
		return err
	}

	probe, cancel := context.WithTimeout(ctx, time.Second)
	running := NewClient(d.cfg).Ping(probe) == nil
	cancel()
	if running {
		return ErrAlreadyRunning
	}

	if d.pidFile.IsRunning() {
		pid, _ := d.pidFile.Read()
		d.logger.Warn("replacing PID file of unresponsive bridge", slog.Int("pid", pid))
	}
	if err := d.pidFile.Write(); err != nil {
		return err
	}
	defer func() {
		if err := d.pidFile.Remove(); err != nil {
			d.logger.Warn("failed to remove PID file", slog.String("error", err.Error()))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.server.ListenAndServe(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	select {
	case err := <-errCh:
		d.logger.Info("bridge stopped")
		return err
	case <-time.After(d.cfg.ShutdownGracePeriod):
		d.logger.Warn("bridge connections still open after grace period",
			slog.Duration("grace", d.cfg.ShutdownGracePeriod))
		return ctx.Err()
	}
}
