// Package logger provides the CLI's own diagnostic logging (warnings,
// notices, errors about the supervisor's own operation) via log/slog. It
// is unrelated to the per-service stdout/stderr log files, which belong to
// the supervised child and are owned by internal/state and internal/tail.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// New builds the CLI's default logger: colored level prefixes when w is a
// terminal, plain text otherwise (e.g. when output is piped or redirected
// to a file).
func New(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return slog.New(newColorHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// colorHandler wraps slog.TextHandler to prefix a record's level with an
// ANSI color code, written straight to w ahead of the text record so the
// escape bytes are not quoted. The coloring mirrors how pmo's own
// diagnostics read on a terminal: stale-pidfile and escalated-SIGKILL
// warnings at yellow, SpawnFailed/IOError at red.
type colorHandler struct {
	*slog.TextHandler
	w io.Writer
}

func newColorHandler(w io.Writer, opts *slog.HandlerOptions) *colorHandler {
	return &colorHandler{TextHandler: slog.NewTextHandler(w, opts), w: w}
}

// Handle implements slog.Handler.
func (h *colorHandler) Handle(ctx context.Context, r slog.Record) error {
	var colorCode string
	switch r.Level {
	case slog.LevelDebug:
		colorCode = "\033[36m" // cyan
	case slog.LevelInfo:
		colorCode = "\033[32m" // green
	case slog.LevelWarn:
		colorCode = "\033[33m" // yellow
	case slog.LevelError:
		colorCode = "\033[31m" // red
	default:
		colorCode = "\033[0m"
	}

	if _, err := io.WriteString(h.w, colorCode+r.Level.String()+"\033[0m  "); err != nil {
		return err
	}
	return h.TextHandler.Handle(ctx, r)
}
