package tui

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	wifilog "github.com/shazow/wifisnap/internal/log"
	"github.com/shazow/wifisnap/match"
	"github.com/shazow/wifisnap/wifi"
)

func testResults() []match.Result {
	return []match.Result{
		{Network: wifi.Network{SSID: "HomeNet", Capabilities: "[WPA2-PSK-CCMP][ESS]", Level: wifi.DBm(-45)}, Score: 1},
		{Network: wifi.Network{SSID: "HomeNett", Capabilities: "[WPA2-PSK-CCMP][ESS]", Level: wifi.DBm(-70)}, Score: 0.875},
	}
}

func newTestPicker(rescan RescanFunc) *pickerModel {
	m := newPicker(testResults(), "HomeNet", rescan, true)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPicker_SelectFirst(t *testing.T) {
	m := newTestPicker(nil)
	_, cmd := m.Update(keyMsg("enter"))
	if !isQuit(cmd) {
		t.Fatal("enter should quit")
	}
	if m.chosen == nil || m.chosen.SSID != "HomeNet" {
		t.Errorf("expected HomeNet, got %+v", m.chosen)
	}
}

func TestPicker_SelectSecond(t *testing.T) {
	m := newTestPicker(nil)
	m.Update(keyMsg("down"))
	m.Update(keyMsg("enter"))
	if m.chosen == nil || m.chosen.SSID != "HomeNett" {
		t.Errorf("expected HomeNett, got %+v", m.chosen)
	}
}

func TestPicker_Cancel(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		m := newTestPicker(nil)
		_, cmd := m.Update(keyMsg(k))
		if !isQuit(cmd) {
			t.Errorf("%s should quit", k)
		}
		if m.chosen != nil {
			t.Errorf("%s should not choose anything", k)
		}
	}
}

func TestPicker_Rescan(t *testing.T) {
	called := false
	m := newTestPicker(func() ([]match.Result, error) {
		called = true
		return nil, nil
	})

	_, cmd := m.Update(keyMsg("s"))
	if !m.loading || cmd == nil {
		t.Fatal("s should start a rescan")
	}
	// A second press while scanning is ignored.
	if _, cmd := m.Update(keyMsg("s")); cmd != nil {
		t.Error("rescan started twice")
	}

	m.Update(rescannedMsg{results: []match.Result{
		{Network: wifi.Network{SSID: "Airport Lounge", Capabilities: "[WPA2-PSK][ESS]"}, Score: 0.7},
	}})
	if m.loading {
		t.Error("loading should be cleared")
	}
	if items := m.list.Items(); len(items) != 1 || items[0].(candidateItem).Network.SSID != "Airport Lounge" {
		t.Errorf("unexpected items after rescan: %+v", items)
	}

	m.Update(keyMsg("s"))
	m.Update(rescannedMsg{err: errors.New("radio off")})
	if m.status != "radio off" {
		t.Errorf("expected error status, got %q", m.status)
	}
	if called {
		t.Error("the rescan command should only run when the program executes it")
	}
}

func TestPicker_NoRescan(t *testing.T) {
	m := newTestPicker(nil)
	if _, cmd := m.Update(keyMsg("s")); cmd != nil || m.loading {
		t.Error("s should do nothing without a rescan function")
	}
}

func TestPicker_LogFooter(t *testing.T) {
	m := newTestPicker(nil)
	r := slog.NewRecord(time.Now(), slog.LevelWarn, "scan failed, using extracted network name", 0)
	m.Update(wifilog.LogMsg(r))
	if !strings.Contains(m.View(), "scan failed") {
		t.Errorf("footer missing log line:\n%s", m.View())
	}
}

func TestPicker_View(t *testing.T) {
	m := newTestPicker(nil)
	view := m.View()
	for _, want := range []string{"HomeNet", "HomeNett", "100%", "WPA2", "-45 dBm"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPick_Empty(t *testing.T) {
	_, ok, err := Pick(nil, "HomeNet")
	if ok || err != nil {
		t.Errorf("Pick(nil) = %v, %v", ok, err)
	}
}

func TestPick_Program(t *testing.T) {
	var out bytes.Buffer
	n, ok, err := Pick(testResults(), "HomeNet", WithIO(strings.NewReader("\r"), &out))
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if !ok || n.SSID != "HomeNet" {
		t.Errorf("Pick() = %+v, %v", n, ok)
	}
}

func TestSignalStrength(t *testing.T) {
	tests := map[int]float64{-100: 0, -90: 0, -60: 0.5, -30: 1, -10: 1}
	for level, want := range tests {
		if got := signalStrength(level); got != want {
			t.Errorf("signalStrength(%d) = %v, want %v", level, got, want)
		}
	}
}

func TestSignalColor(t *testing.T) {
	if got := signalColor(-20, true); !strings.EqualFold(string(got), CurrentTheme.SignalHigh.Dark) {
		t.Errorf("strong signal should be the high color, got %s", got)
	}
	if got := signalColor(-95, false); !strings.EqualFold(string(got), CurrentTheme.SignalLow.Light) {
		t.Errorf("weak signal should be the low color, got %s", got)
	}
	if signalColor(-60, true) == signalColor(-40, true) {
		t.Error("different levels should blend to different colors")
	}
}
