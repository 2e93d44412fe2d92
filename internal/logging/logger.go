package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(StdoutHandler()))
}

func StdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// WithDB adds the database sink next to stdout. The caller owns the sink
// and must Stop it on shutdown.
func WithDB(sink *DBHandler) {
	slog.SetDefault(slog.New(NewMultiHandler(StdoutHandler(), sink)))
}
