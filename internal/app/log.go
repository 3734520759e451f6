package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"fo-go/internal/config"
)

// ANSI colors for level tokens.
var levelColors = map[slog.Level]string{
	slog.LevelDebug: "\033[1;96m",
	slog.LevelInfo:  "\033[1;92m",
	slog.LevelWarn:  "\033[1;93m",
	slog.LevelError: "\033[1;91m",
}

const colorReset = "\033[0m"

// logSink is one destination of the handler.
type logSink struct {
	w     io.Writer
	color bool
}

// foHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<runID>\t<message>\t<key=value ...>
//
// Records below level are dropped.
type foHandler struct {
	sinks []logSink
	runID string
	level slog.Leveler
	attrs []slog.Attr
}

func (h *foHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *foHandler) Handle(_ context.Context, r slog.Record) error {
	for _, s := range h.sinks {
		if err := h.write(s, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *foHandler) write(s logSink, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	level := r.Level.String()
	if s.color {
		if c, ok := levelColors[r.Level]; ok {
			level = c + level + colorReset
		}
	}

	_, err := fmt.Fprintf(s.w, "%s\t%s\t%s\t%s", ts, level, h.runID, r.Message)
	if err != nil {
		return err
	}

	// Write pre-set attrs.
	for _, a := range h.attrs {
		fmt.Fprintf(s.w, "\t%s=%v", a.Key, a.Value)
	}

	// Write per-record attrs.
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(s.w, "\t%s=%v", a.Key, a.Value)
		return true
	})

	_, err = fmt.Fprintln(s.w)
	return err
}

func (h *foHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &foHandler{
		sinks: h.sinks,
		runID: h.runID,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *foHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger that writes to stderr and, when
// cfg.LogFile is set, appends to that file as well. Verbose runs log from
// Debug upward; otherwise only warnings and errors are written.
// It returns the slog.Logger, the open log file (nil without LogFile), and any error.
func newLogger(cfg *config.Config, runID string, stderr io.Writer) (*slog.Logger, *os.File, error) {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	sinks := []logSink{{w: stderr, color: useColor(cfg.Color, stderr)}}

	var f *os.File
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		sinks = append(sinks, logSink{w: f})
	}

	handler := &foHandler{sinks: sinks, runID: runID, level: level}
	return slog.New(handler), f, nil
}

// useColor decides whether level tokens written to w are colored.
func useColor(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// slogAdapter wraps *slog.Logger to satisfy the fo.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
