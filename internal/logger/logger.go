package logger

import (
	"log/slog"
	"os"
	"strings"
)

var log *slog.Logger

// Init builds the process logger and installs it as the slog default.
// Development gets a text handler, everything else JSON.
func Init(env, level string) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(parseLevel(level))

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
	return log
}

// Get returns the process logger, falling back to a development logger when
// Init has not run.
func Get() *slog.Logger {
	if log == nil {
		return Init("development", "info")
	}
	return log
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
