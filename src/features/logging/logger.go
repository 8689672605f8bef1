package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"dirwatch/src/features/config"

	"github.com/charmbracelet/log"
)

// SetupLogger builds the application logger from config.
func SetupLogger(cfg *config.Manager) *slog.Logger {
	if !cfg.Get().Logger.Enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var formatter log.Formatter
	switch cfg.Get().Logger.Format {
	case "json":
		formatter = log.JSONFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		formatter = log.LogfmtFormatter
	}

	level := log.InfoLevel
	switch cfg.Get().Logger.Level {
	case "debug":
		level = log.DebugLevel
	case "info":
		level = log.InfoLevel
	case "warn":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "Dirwatch",
		Formatter:       formatter,
		Level:           level,
	})

	return slog.New(handler)
}
