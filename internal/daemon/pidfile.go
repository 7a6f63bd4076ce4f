package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrPIDFileNotFound is returned when no bridge has recorded its PID.
var ErrPIDFileNotFound = errors.New("PID file not found")

// PIDFile records which process owns the bridge socket. 'everyfind status'
// and 'everyfind stop' go through it; the socket itself only answers once
// the bridge is listening.
type PIDFile struct {
	path string
}

// NewPIDFile returns a PIDFile at path. Nothing is touched on disk.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the PID file path.
func (p *PIDFile) Path() string {
	return p.path
}

// Write stores this process's PID. The number is written to a sibling
// temp file and renamed into place, so readers see the old PID or the
// new one and never a torn write.
func (p *PIDFile) Write() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read returns the recorded PID. Zero, negative and non-numeric contents
// are errors so a damaged file can never address a process group.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return 0, ErrPIDFileNotFound
	case err != nil:
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}
	return parsePID(string(data))
}

// Remove deletes the file when it names this process or is unreadable.
// A file rewritten by a newer bridge is left in place.
func (p *PIDFile) Remove() error {
	pid, err := p.Read()
	switch {
	case errors.Is(err, ErrPIDFileNotFound):
		return nil
	case err == nil && pid != os.Getpid():
		return nil
	}

	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// IsRunning reports whether the recorded process is alive.
func (p *PIDFile) IsRunning() bool {
	pid, err := p.Read()
	return err == nil && processExists(pid)
}

// Signal delivers sig to the recorded process.
func (p *PIDFile) Signal(sig syscall.Signal) error {
	pid, err := p.Read()
	if err != nil {
		return fmt.Errorf("failed to read PID: %w", err)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := proc.Signal(sig); err != nil {
		return fmt.Errorf("failed to signal process %d: %w", pid, err)
	}
	return nil
}

func parsePID(s string) (int, error) {
	pid, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file: %d", pid)
	}
	return pid, nil
}

// processExists probes pid with signal 0. EPERM means the process exists
// but belongs to another user, which still counts as running.
func processExists(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, os.ErrPermission)
}
