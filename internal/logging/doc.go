// Package logging provides file-based structured logging with rotation for everyfind.
// Logs are written as JSON lines to ~/.everyfind/logs/everyfind.log.
//
// Interactive commands also mirror logs to stderr; the bridge and MCP modes
// log to file only because stdout carries protocol traffic. Viewer reads the
// file back for 'everyfind logs'.
package logging
