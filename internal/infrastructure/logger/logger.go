package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	root *slog.Logger
	once sync.Once
)

// Init configures the process-wide logger. Level is read from LOG_LEVEL
// (debug|info|warn|error, default info). Output is JSON on stdout so log
// shippers can ingest it without extra parsing.
func Init() {
	once.Do(func() {
		level := parseLevel(os.Getenv("LOG_LEVEL"))
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		root = slog.New(handler)
		slog.SetDefault(root)
	})
}

// For returns a child logger tagged with the component name, e.g.
// "realtime.gateway" or "chat.unread". Call Init first; For falls back to
// the default logger if Init was skipped (tests).
func For(component string) *slog.Logger {
	if root == nil {
		return slog.Default().With("component", component)
	}
	return root.With("component", component)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
