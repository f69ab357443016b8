// Package log keeps the most recent log records in memory and forwards them
// to a running picker.
package log

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// keep is how many records Logs returns.
const keep = 20

// LogMsg is a tea.Msg that represents a log record.
type LogMsg slog.Record

// TUIHandler is a slog.Handler that retains recent records and sends them to a
// tea.Program. Sends never block: a record is dropped for the UI if the
// receiver is busy, but it is still retained and passed on.
type TUIHandler struct {
	slog.Handler
	state *state
}

// state is shared by every handler derived with WithAttrs or WithGroup.
type state struct {
	mu   sync.Mutex
	ch   chan<- tea.Msg
	logs []slog.Record
}

// NewTUIHandler wraps handler. ch may be nil and set later with SetOutput.
func NewTUIHandler(handler slog.Handler, ch chan<- tea.Msg) *TUIHandler {
	return &TUIHandler{
		Handler: handler,
		state:   &state{ch: ch},
	}
}

// Handle retains r, offers it to the output channel and passes it on.
func (h *TUIHandler) Handle(ctx context.Context, r slog.Record) error {
	h.state.mu.Lock()
	h.state.logs = append(h.state.logs, r.Clone())
	if len(h.state.logs) > keep {
		h.state.logs = h.state.logs[len(h.state.logs)-keep:]
	}
	if h.state.ch != nil {
		select {
		case h.state.ch <- LogMsg(r):
		default:
		}
	}
	h.state.mu.Unlock()

	return h.Handler.Handle(ctx, r)
}

func (h *TUIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TUIHandler{Handler: h.Handler.WithAttrs(attrs), state: h.state}
}

func (h *TUIHandler) WithGroup(name string) slog.Handler {
	return &TUIHandler{Handler: h.Handler.WithGroup(name), state: h.state}
}

// Logs returns a copy of the retained records, oldest first.
func (h *TUIHandler) Logs() []slog.Record {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return append([]slog.Record(nil), h.state.logs...)
}

// SetOutput sets the output channel for the handler. nil stops forwarding.
func (h *TUIHandler) SetOutput(ch chan<- tea.Msg) {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	h.state.ch = ch
}

var defaultHandler *TUIHandler

// Init installs a TUIHandler wrapping handler as the default logger.
func Init(handler slog.Handler) *slog.Logger {
	defaultHandler = NewTUIHandler(handler, nil)
	logger := slog.New(defaultHandler)
	slog.SetDefault(logger)
	return logger
}

// SetOutput sets the output channel for the default logger. It does nothing
// before Init.
func SetOutput(ch chan<- tea.Msg) {
	if defaultHandler != nil {
		defaultHandler.SetOutput(ch)
	}
}

// Logs returns the retained records of the default logger.
func Logs() []slog.Record {
	if defaultHandler == nil {
		return nil
	}
	return defaultHandler.Logs()
}
