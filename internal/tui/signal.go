package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Signal levels at the ends of the color gradient, in dBm.
const (
	signalFloor   = -90
	signalCeiling = -30
)

// signalStrength maps a dBm level onto [0, 1].
func signalStrength(level int) float64 {
	switch {
	case level <= signalFloor:
		return 0
	case level >= signalCeiling:
		return 1
	}
	return float64(level-signalFloor) / float64(signalCeiling-signalFloor)
}

// signalColor blends between the theme's low and high signal colors.
func signalColor(level int, dark bool) lipgloss.Color {
	low, high := CurrentTheme.SignalLow.Light, CurrentTheme.SignalHigh.Light
	if dark {
		low, high = CurrentTheme.SignalLow.Dark, CurrentTheme.SignalHigh.Dark
	}
	start, err := colorful.Hex(low)
	if err != nil {
		return lipgloss.Color(high)
	}
	end, err := colorful.Hex(high)
	if err != nil {
		return lipgloss.Color(high)
	}
	return lipgloss.Color(start.BlendRgb(end, signalStrength(level)).Hex())
}
