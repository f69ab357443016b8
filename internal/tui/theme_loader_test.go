package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLoadTheme(t *testing.T) {
	t.Cleanup(func() { CurrentTheme = NewDefaultTheme() })

	tomlData := `
		Primary = "#FF0000"
		Subtle = ["#00FF00", "#00EE00"]
		Success = "#0000FF"
		SignalHigh = "#008000"
		SignalLow = ["#FFA500", "#FF8C00"]
	`

	err := LoadTheme(strings.NewReader(tomlData))
	if err != nil {
		t.Fatalf("LoadTheme failed: %v", err)
	}

	// Verify a single color
	expectedColor := lipgloss.Color("#FF0000")
	if CurrentTheme.Primary != expectedColor {
		t.Errorf("Expected Primary color to be %v, but got %v", expectedColor, CurrentTheme.Primary)
	}

	// Verify an adaptive color
	adaptiveColor, ok := CurrentTheme.Subtle.(lipgloss.AdaptiveColor)
	if !ok {
		t.Fatalf("Expected Subtle color to be an AdaptiveColor, but it's not")
	}
	if adaptiveColor.Light != "#00FF00" {
		t.Errorf("Expected Subtle light color to be #00FF00, but got %s", adaptiveColor.Light)
	}
	if adaptiveColor.Dark != "#00EE00" {
		t.Errorf("Expected Subtle dark color to be #00EE00, but got %s", adaptiveColor.Dark)
	}

	if CurrentTheme.SignalHigh != (lipgloss.AdaptiveColor{Light: "#008000", Dark: "#008000"}) {
		t.Errorf("unexpected SignalHigh %v", CurrentTheme.SignalHigh)
	}
	if CurrentTheme.SignalLow.Dark != "#FF8C00" {
		t.Errorf("unexpected SignalLow %v", CurrentTheme.SignalLow)
	}

	// Unset colors keep their defaults.
	if CurrentTheme.Border != NewDefaultTheme().Border {
		t.Errorf("Border should keep its default, got %v", CurrentTheme.Border)
	}
}

func TestLoadTheme_NilReader(t *testing.T) {
	// Keep a copy of the original theme
	originalTheme := CurrentTheme

	err := LoadTheme(nil)
	if err != nil {
		t.Fatalf("LoadTheme(nil) should not return an error, but got: %v", err)
	}

	// Verify that the theme has not changed
	if CurrentTheme.Primary != originalTheme.Primary {
		t.Errorf("Theme should not change when reader is nil")
	}
}

func TestLoadTheme_InvalidToml(t *testing.T) {
	for _, data := range []string{
		`Primary = `,
		`Primary = 42`,
		`Primary = ["#000000"]`,
	} {
		if err := LoadTheme(strings.NewReader(data)); err == nil {
			t.Errorf("LoadTheme(%q) should have failed", data)
		}
	}
}

func TestLoadThemeFile(t *testing.T) {
	t.Cleanup(func() { CurrentTheme = NewDefaultTheme() })

	if err := LoadThemeFile(""); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}
	if err := LoadThemeFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte(`Error = "#123456"`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadThemeFile(path); err != nil {
		t.Fatalf("LoadThemeFile failed: %v", err)
	}
	if CurrentTheme.Error != lipgloss.Color("#123456") {
		t.Errorf("unexpected Error color %v", CurrentTheme.Error)
	}
}
