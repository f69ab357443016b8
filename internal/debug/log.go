// Package debug writes a verbose log file for troubleshooting.
package debug

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// FileName is created in the working directory.
const FileName = "wifisnap-debug.log"

// Open truncates the debug log at path and returns a handler writing every
// record at debug level or above to it, plus a function closing the file.
func Open(path string) (slog.Handler, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, err
	}
	h := NewHandler(f)
	slog.New(h).Debug("--- wifisnap debug log ---")
	return h, func() error {
		slog.New(h).Debug("--- session ended ---")
		return f.Close()
	}, nil
}

// NewHandler returns a text handler logging everything to w.
func NewHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Tee sends every record to both handlers.
type Tee struct {
	A, B slog.Handler
}

func (t Tee) Enabled(ctx context.Context, level slog.Level) bool {
	return t.A.Enabled(ctx, level) || t.B.Enabled(ctx, level)
}

func (t Tee) Handle(ctx context.Context, r slog.Record) error {
	var errA, errB error
	if t.A.Enabled(ctx, r.Level) {
		errA = t.A.Handle(ctx, r.Clone())
	}
	if t.B.Enabled(ctx, r.Level) {
		errB = t.B.Handle(ctx, r)
	}
	return errors.Join(errA, errB)
}

func (t Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Tee{t.A.WithAttrs(attrs), t.B.WithAttrs(attrs)}
}

func (t Tee) WithGroup(name string) slog.Handler {
	return Tee{t.A.WithGroup(name), t.B.WithGroup(name)}
}
