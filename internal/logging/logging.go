// Package logging installs the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options controls where records go
type Options struct {
	// File, when set, receives JSON records. Used while the TUI owns the terminal.
	File string
	// Writer receives text records when File is empty (stderr for the CLI)
	Writer io.Writer
	Debug  bool
}

// Setup installs the default logger and returns a func that releases the
// log file, if one was opened.
func Setup(opts Options) (func() error, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(f, handlerOpts)))
		return f.Close, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, handlerOpts)))
	return func() error { return nil }, nil
}
