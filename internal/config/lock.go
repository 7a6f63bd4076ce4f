package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

// LockFileName sits beside settings.json and serializes writers.
const LockFileName = ".settings.lock"

// lockTimeout bounds the wait for another writer; the host, a bridge and
// 'everyfind config init' may all write settings.
var lockTimeout = 5 * time.Second

const lockRetry = 25 * time.Millisecond

// WithLock runs fn while holding the settings lock in dir, waiting up to
// five seconds for another process to release it.
func WithLock(ctx context.Context, dir string, fn func() error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(errors.ErrCodeConfigPermission, "failed to create config directory", err).
			WithDetail("path", dir)
	}

	path := filepath.Join(dir, LockFileName)
	fl := flock.New(path)

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil || !locked {
		return errors.New(errors.ErrCodeConfigPermission, "settings are locked by another process", err).
			WithDetail("path", path).
			WithSuggestion("Wait for the other writer to finish, then retry")
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}
