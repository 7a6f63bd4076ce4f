// Package profiling captures pprof profiles of a running bridge so slow
// queries or leaked goroutines can be diagnosed after the fact.
package profiling

import (
	stderrors "errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

// Options names the profile files to write. Empty paths are skipped.
type Options struct {
	CPUPath       string
	HeapPath      string
	GoroutinePath string
}

// Enabled reports whether any profile was requested.
func (o Options) Enabled() bool {
	return o.CPUPath != "" || o.HeapPath != "" || o.GoroutinePath != ""
}

// Session collects the profiles named in Options. CPU profiling runs from
// Start until Stop; heap and goroutine snapshots are taken at Stop, when the
// bridge has served its traffic.
type Session struct {
	opts    Options
	cpuFile *os.File
}

// Start begins a session. With no profiles requested it returns an inert
// session whose Stop does nothing.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPUPath == "" {
		return s, nil
	}

	f, err := os.Create(opts.CPUPath)
	if err != nil {
		return nil, errors.New(errors.ErrCodeFilePermission, "failed to create CPU profile", err).
			WithDetail("path", opts.CPUPath)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, errors.InternalError("failed to start CPU profile", err)
	}
	s.cpuFile = f
	return s, nil
}

// Stop ends CPU profiling and writes the snapshots. Every requested profile
// is attempted; failures are joined.
func (s *Session) Stop() error {
	var errs []error

	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := s.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close CPU profile: %w", err))
		}
		s.cpuFile = nil
	}
	if s.opts.HeapPath != "" {
		runtime.GC()
		errs = append(errs, writeProfile("heap", s.opts.HeapPath, 0))
	}
	if s.opts.GoroutinePath != "" {
		errs = append(errs, writeProfile("goroutine", s.opts.GoroutinePath, 1))
	}
	return stderrors.Join(errs...)
}

func writeProfile(name, path string, debug int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New(errors.ErrCodeFilePermission, "failed to create "+name+" profile", err).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	if err := pprof.Lookup(name).WriteTo(f, debug); err != nil {
		return fmt.Errorf("write %s profile: %w", name, err)
	}
	return nil
}

// MemStats returns current memory statistics.
func MemStats() runtime.MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m
}

// FormatBytes formats bytes into human-readable form.
func FormatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
