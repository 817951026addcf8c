package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jhapy/app-i18n-server/internal/config"
)

// NewLogger creates a *slog.Logger from LogConfig and installs it as the
// process default via slog.SetDefault.
//
// Format "json" produces structured JSON output (production).
// Any other format produces human-readable text with source info (development).
// Level is one of: debug, info, warn, error (case-insensitive); defaults to info.
// Output is always os.Stderr.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := slog.New(newHandler(os.Stderr, cfg))
	slog.SetDefault(logger)
	return logger
}

// newHandler builds the slog handler for the given config. Split out from
// NewLogger so tests can direct output to a buffer.
func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	json := strings.EqualFold(cfg.Format, "json")

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !json,
	}

	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
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
