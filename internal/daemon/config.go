// Package daemon provides the host bridge: a background process that keeps
// the plugin (and the loaded search engine binding) alive and answers host
// requests over a Unix socket, one JSON-RPC request per connection.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// maxSocketPath is the smallest sun_path limit among supported platforms
// (104 bytes on darwin, including the terminating NUL).
const maxSocketPath = 103

// Config says where the bridge listens and how long it waits.
// Paths default to ~/.everyfind/bridge.{sock,pid}.
type Config struct {
	SocketPath string
	PIDPath    string

	// Timeout bounds one request/response exchange.
	Timeout time.Duration

	// ShutdownGracePeriod is how long Start waits for open connections
	// after its context is cancelled.
	ShutdownGracePeriod time.Duration
}

// DefaultConfig places the socket and PID file under ~/.everyfind, falling
// back to the temp dir when there is no home directory.
func DefaultConfig() Config {
	base := os.TempDir()
	if home, err := os.UserHomeDir(); err == nil {
		base = home
	}
	dir := filepath.Join(base, ".everyfind")

	return Config{
		SocketPath:          filepath.Join(dir, "bridge.sock"),
		PIDPath:             filepath.Join(dir, "bridge.pid"),
		Timeout:             30 * time.Second,
		ShutdownGracePeriod: 5 * time.Second,
	}
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	switch {
	case c.SocketPath == "":
		errs = append(errs, errors.New("socket path cannot be empty"))
	case len(c.SocketPath) > maxSocketPath:
		errs = append(errs, fmt.Errorf("socket path is %d bytes, limit is %d", len(c.SocketPath), maxSocketPath))
	}
	if c.PIDPath == "" {
		errs = append(errs, errors.New("PID path cannot be empty"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.ShutdownGracePeriod <= 0 {
		errs = append(errs, errors.New("shutdown grace period must be positive"))
	}
	return errors.Join(errs...)
}

// EnsureDir creates the private directories holding the socket and PID file.
func (c Config) EnsureDir() error {
	for _, p := range []string{c.SocketPath, c.PIDPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return fmt.Errorf("failed to create bridge directory: %w", err)
		}
	}
	return nil
}
