// Package logging installs the process wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Setup builds a JSON logger writing to file, or to stderr when file is "-"
// or empty, and makes it the default. The returned closer releases the file.
func Setup(level, file string) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if file != "" && file != "-" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}
	logger := New(w, level)
	slog.SetDefault(logger)
	return logger, closer, nil
}

func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
