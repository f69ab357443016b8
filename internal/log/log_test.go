package log

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTUIHandler_KeepsRecent(t *testing.T) {
	var buf bytes.Buffer
	h := NewTUIHandler(slog.NewTextHandler(&buf, nil), nil)
	logger := slog.New(h)

	for i := 0; i < 25; i++ {
		logger.Info(fmt.Sprintf("message %d", i))
	}

	logs := h.Logs()
	if len(logs) != keep {
		t.Fatalf("expected %d records, got %d", keep, len(logs))
	}
	if logs[0].Message != "message 5" || logs[keep-1].Message != "message 24" {
		t.Errorf("unexpected window: %q .. %q", logs[0].Message, logs[keep-1].Message)
	}
	if got := strings.Count(buf.String(), "\n"); got != 25 {
		t.Errorf("expected every record passed on, got %d lines", got)
	}
}

func TestTUIHandler_Forwards(t *testing.T) {
	ch := make(chan tea.Msg, 1)
	h := NewTUIHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), ch)
	logger := slog.New(h).With("component", "resolver")

	logger.Warn("scan failed")
	select {
	case msg := <-ch:
		r, ok := msg.(LogMsg)
		if !ok {
			t.Fatalf("expected LogMsg, got %T", msg)
		}
		if r.Message != "scan failed" || r.Level != slog.LevelWarn {
			t.Errorf("unexpected record: %+v", r)
		}
	default:
		t.Fatal("record was not forwarded")
	}

	// The channel is full now; logging must not block.
	logger.Info("one")
	logger.Info("two")
	if len(h.Logs()) != 3 {
		t.Errorf("derived handler should share state, got %d records", len(h.Logs()))
	}

	h.SetOutput(nil)
	<-ch
	logger.Info("three")
	if len(ch) != 0 {
		t.Error("records forwarded after SetOutput(nil)")
	}
}

func TestDefault(t *testing.T) {
	SetOutput(nil) // no-op before Init
	logger := Init(slog.NewTextHandler(&bytes.Buffer{}, nil))
	logger.Info("hello")
	logs := Logs()
	if len(logs) != 1 || logs[0].Message != "hello" {
		t.Errorf("unexpected logs: %+v", logs)
	}
}
