package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// newLogger builds the process logger from the logging section of the
// configuration.  Unknown levels fall back to info.
func newLogger(cfg LoggingConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if l := parseLevel(cfg.Level); l != nil {
		level = *l
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) *slog.Level {
	var level slog.Level
	switch strings.ToLower(s) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil
	}
	return &level
}

// EventLogger appends timestamped events to a file.  It is safe for
// concurrent use, and a nil *EventLogger discards everything.
type EventLogger struct {
	filePath string
	mu       sync.Mutex
	now      func() time.Time
}

// NewEventLogger creates a journal writing to filePath.  An empty path
// returns nil, which disables the journal.
func NewEventLogger(filePath string) *EventLogger {
	if filePath == "" {
		return nil
	}
	return &EventLogger{filePath: filePath, now: time.Now}
}

// Log writes a single event.  Errors are printed to standard error and
// otherwise ignored: a broken journal never stops the LED.
func (el *EventLogger) Log(format string, args ...any) {
	if el == nil {
		return
	}
	el.mu.Lock()
	defer el.mu.Unlock()
	line := fmt.Sprintf("%s - %s\n", el.now().Format(time.RFC3339), fmt.Sprintf(format, args...))
	f, err := os.OpenFile(el.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "journal error: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		fmt.Fprintf(os.Stderr, "journal write error: %v\n", err)
	}
}
