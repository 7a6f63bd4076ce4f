package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	defaultMaxSizeMB = 10
	defaultMaxFiles  = 5
)

// Config describes where plugin logs go and how much history is kept.
type Config struct {
	Level         string // debug, info, warn or error
	FilePath      string
	MaxSizeMB     int  // rotate beyond this size
	MaxFiles      int  // rotated copies kept beside FilePath
	WriteToStderr bool // mirror to stderr; off whenever stdout/stderr carry a protocol
}

// DefaultConfig logs at info to ~/.everyfind/logs/everyfind.log and stderr.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     defaultMaxSizeMB,
		MaxFiles:      defaultMaxFiles,
		WriteToStderr: true,
	}
}

// DebugConfig is DefaultConfig at debug level.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

func (c Config) withDefaults() Config {
	if c.FilePath == "" {
		c.FilePath = DefaultLogPath()
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = defaultMaxSizeMB
	}
	if c.MaxFiles <= 0 {
		c.MaxFiles = defaultMaxFiles
	}
	return c
}

// Setup opens the log file and returns a JSON logger writing to it.
// The returned func flushes and closes the file.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	cfg = cfg.withDefaults()

	file, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var sink io.Writer = file
	if cfg.WriteToStderr {
		sink = io.MultiWriter(file, os.Stderr)
	}

	logger := slog.New(slog.NewJSONHandler(sink, &slog.HandlerOptions{
		Level: LevelFromString(cfg.Level),
	}))

	return logger, func() {
		_ = file.Sync()
		_ = file.Close()
	}, nil
}

// Discard returns a logger that drops everything, for tests and library
// callers that want no plugin output.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromString maps a level name to slog.Level. Unknown names mean info.
func LevelFromString(level string) slog.Level {
	l, ok := lookupLevel(level)
	if !ok {
		return slog.LevelInfo
	}
	return l
}

// IsValidLevel reports whether level names one of the supported levels.
func IsValidLevel(level string) bool {
	_, ok := lookupLevel(level)
	return ok
}

func lookupLevel(level string) (slog.Level, bool) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	switch name {
	case "debug", "info", "warn", "error":
	default:
		return 0, false
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, false
	}
	return l, true
}
