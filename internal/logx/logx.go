package logx

import (
	"io"
	"log/slog"
)

// LevelFor maps a -v count to a log level: 0 warn, 1 info, 2+ debug.
func LevelFor(verbosity int) slog.Level {
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// New creates a text logger writing to w at the level implied by verbosity.
func New(w io.Writer, verbosity int) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelFor(verbosity),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Timestamps add noise to interactive CLI output.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler)
}
