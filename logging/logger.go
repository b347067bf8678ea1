// Package logging holds the process-wide structured logger used by tabledb.
// The engine only logs at Debug and Warn, so the default logger (which
// discards Debug) stays quiet unless a caller opts in.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func Logger() *slog.Logger {
	return logger.Load()
}

func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// New builds a text logger writing to w at the named level ("debug", "info",
// "warn" or "error"; anything else means info).
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func WithDatabase(name string) *slog.Logger {
	return Logger().With("database", name)
}

func WithTable(database string, table string) *slog.Logger {
	return Logger().With("database", database, "table", table)
}
