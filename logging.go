package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slog"
)

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// newLogger appends to the log file, so earlier runs stay readable. The
// returned closer closes that file.
func newLogger(path, level string, stderr bool) (*slog.Logger, io.Closer, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}

	var w io.Writer = f
	if stderr {
		w = io.MultiWriter(f, os.Stderr)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), f, nil
}
