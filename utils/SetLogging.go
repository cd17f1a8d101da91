package utils

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
)

// SetLogging initializes the global slog logger.
//
//	levelName is one of debug, info, warn, error. Default is info.
//	logFile is an optional file to write to. When empty, logs go to stderr
//	with a tint console handler.
func SetLogging(levelName string, logFile string) {
	level := slog.LevelInfo
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if logFile != "" {
		logDir := filepath.Dir(logFile)
		_ = os.MkdirAll(logDir, 0750)
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		var w io.Writer = f
		if err != nil {
			// fallback to stderr
			w = os.Stderr
		}
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	}
	slog.SetDefault(slog.New(handler))
}
