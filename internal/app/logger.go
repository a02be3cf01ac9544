package app

import (
	"io"
	"log/slog"
)

// newLogger builds an isolated slog.Logger; nothing here touches the global
// default, so tests can run apps side by side.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "text" {
		handler = slog.NewTextHandler(outW, opts)
	} else {
		handler = slog.NewJSONHandler(outW, opts)
	}
	return slog.New(handler)
}
