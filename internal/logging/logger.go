// Package logging wires the process-wide slog pipeline. The server logs
// JSON to stdout and tees error records into the system_logs table via
// PGHandler; StartCleanup prunes aged rows on a daily ticker.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default stdout JSON logger. The database sink is
// attached later, once a connection exists, by re-setting the default
// logger with a TeeHandler.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	slog.SetDefault(slog.New(handler))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
