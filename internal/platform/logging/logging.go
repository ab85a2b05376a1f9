package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func New(env string) *slog.Logger {
	return NewWithLevel(os.Stdout, env, "")
}

// NewWithLevel writes to w. level ("debug", "info", "warn", "error")
// overrides the environment default when set.
func NewWithLevel(w io.Writer, env, level string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case "prod", "production":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     parseLevel(level, slog.LevelInfo),
			AddSource: true,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     parseLevel(level, slog.LevelDebug),
			AddSource: true,
		})
	}

	return slog.New(handler)
}

func parseLevel(s string, def slog.Level) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return def
	}
	return l
}
