package logging

import (
	"log/slog"
)

// SetupQuietMode initializes file-only logging for the bridge and MCP modes
// and installs the logger as the slog default.
//
// stdout carries JSON-RPC traffic in those modes and hosts often treat any
// stderr output as a plugin crash, so nothing is written to either.
func SetupQuietMode(level string) (func(), error) {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.WriteToStderr = false

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	slog.Debug("quiet mode logging initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level))

	return cleanup, nil
}
