package logger

import (
	"log/slog"
	"os"
)

// New builds the process logger and installs it as the slog default.
// Production gets JSON at info level, everything else human-readable text at debug.
func New(env string) *slog.Logger {
	var handler slog.Handler

	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	}

	l := slog.New(handler)
	slog.SetDefault(l)

	return l
}
