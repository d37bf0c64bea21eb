// Package logger provides the structured diagnostic logger used throughout
// the mount process, backed by log/slog with a handler that renders records
// in this system's historical on-disk log format.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Severity mirrors the TRACE/DEBUG/INFO/WARNING/ERROR levels this system has
// always logged at, mapped onto slog's smaller built-in level set.
const (
	LevelTrace   = slog.Level(-8)
	LevelDebug   = slog.LevelDebug
	LevelInfo    = slog.LevelInfo
	LevelWarning = slog.LevelWarn
	LevelError   = slog.LevelError
)

// Logger is a thin wrapper around *slog.Logger exposing the severities this
// system's diagnostics have always used.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New builds a Logger that writes to w at or above minLevel, using the
// bracketed-timestamp record format described in SPEC_FULL.md §6. w is not
// closed by the returned Logger; callers that opened it are responsible for
// that. (A Logger built by Open owns its file and closes it in Close.)
func New(w io.Writer, minLevel slog.Level) *Logger {
	h := newFileHandler(w, minLevel)
	return &Logger{Logger: slog.New(h)}
}

// Open opens path for appending and returns a Logger writing to it at or
// above minLevel. Close must be called to release the underlying file.
func Open(path string, minLevel slog.Level) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}

	l := New(f, minLevel)
	l.closer = f
	return l, nil
}

// Close releases the underlying file, if this Logger owns one (i.e. was
// constructed via Open). It is the realization of the "destroy closes the
// log sink" requirement (SPEC_FULL.md §4.4).
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// fileHandler renders records as "[DD-MM-YYYY HH:MM:SS] message\n", flushing
// after every record. Structured fields attached via slog's With/WithGroup
// are appended after the message as "key=value" pairs, since the historical
// format has no native notion of them.
type fileHandler struct {
	mu       *sync.Mutex
	w        io.Writer
	minLevel slog.Level
	attrs    []slog.Attr
}

func newFileHandler(w io.Writer, minLevel slog.Level) *fileHandler {
	return &fileHandler{mu: &sync.Mutex{}, w: w, minLevel: minLevel}
}

func (h *fileHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLevel
}

func (h *fileHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", r.Time.Format("02-01-2006 15:04:05"), r.Message)

	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	line += "\n"

	if _, err := io.WriteString(h.w, line); err != nil {
		return err
	}
	if f, ok := h.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

func (h *fileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	combined = append(combined, h.attrs...)
	combined = append(combined, attrs...)
	return &fileHandler{mu: h.mu, w: h.w, minLevel: h.minLevel, attrs: combined}
}

func (h *fileHandler) WithGroup(_ string) slog.Handler {
	// Groups have no representation in the flat, bracketed-timestamp format;
	// attributes are flattened regardless of group nesting.
	return h
}
