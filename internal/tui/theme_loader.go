package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// themeColor is either a single color or a [light, dark] pair.
type themeColor lipgloss.AdaptiveColor

func (c *themeColor) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*c = themeColor{Light: v, Dark: v}
		return nil
	case []any:
		if len(v) == 2 {
			light, ok1 := v[0].(string)
			dark, ok2 := v[1].(string)
			if ok1 && ok2 {
				*c = themeColor{Light: light, Dark: dark}
				return nil
			}
		}
	}
	return fmt.Errorf("color must be a string or a [light, dark] pair, got %v", v)
}

// terminal returns a plain color when both variants agree.
func (c themeColor) terminal() lipgloss.TerminalColor {
	if c.Light == c.Dark {
		return lipgloss.Color(c.Light)
	}
	return lipgloss.AdaptiveColor(c)
}

// themeFile represents the structure of the theme TOML file.
// Pointers distinguish a missing value from an empty one, so users can
// override only the colors they want.
type themeFile struct {
	Primary    *themeColor `toml:"Primary,omitempty"`
	Subtle     *themeColor `toml:"Subtle,omitempty"`
	Success    *themeColor `toml:"Success,omitempty"`
	Error      *themeColor `toml:"Error,omitempty"`
	Normal     *themeColor `toml:"Normal,omitempty"`
	Disabled   *themeColor `toml:"Disabled,omitempty"`
	Border     *themeColor `toml:"Border,omitempty"`
	SignalHigh *themeColor `toml:"SignalHigh,omitempty"`
	SignalLow  *themeColor `toml:"SignalLow,omitempty"`
}

// LoadTheme reads a theme from r and makes it current, starting from the
// default theme. A nil reader does nothing.
func LoadTheme(r io.Reader) error {
	if r == nil {
		return nil
	}

	var tf themeFile
	if _, err := toml.NewDecoder(r).Decode(&tf); err != nil {
		return err
	}

	theme := NewDefaultTheme()
	for _, c := range []struct {
		from *themeColor
		to   *lipgloss.TerminalColor
	}{
		{tf.Primary, &theme.Primary},
		{tf.Subtle, &theme.Subtle},
		{tf.Success, &theme.Success},
		{tf.Error, &theme.Error},
		{tf.Normal, &theme.Normal},
		{tf.Disabled, &theme.Disabled},
		{tf.Border, &theme.Border},
	} {
		if c.from != nil {
			*c.to = c.from.terminal()
		}
	}
	if tf.SignalHigh != nil {
		theme.SignalHigh = lipgloss.AdaptiveColor(*tf.SignalHigh)
	}
	if tf.SignalLow != nil {
		theme.SignalLow = lipgloss.AdaptiveColor(*tf.SignalLow)
	}

	CurrentTheme = theme
	return nil
}

// LoadThemeFile loads the theme at path. An empty path does nothing.
func LoadThemeFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := LoadTheme(f); err != nil {
		return fmt.Errorf("theme %s: %w", path, err)
	}
	return nil
}
