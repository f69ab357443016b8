// Package tui is the interactive network picker.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wifilog "github.com/shazow/wifisnap/internal/log"
	"github.com/shazow/wifisnap/match"
	"github.com/shazow/wifisnap/wifi"
)

const ssidColumnWidth = 30

// candidateItem is one ranked network in the list.
type candidateItem struct {
	match.Result
}

func (i candidateItem) Title() string { return i.Network.SSID }
func (i candidateItem) Description() string {
	return fmt.Sprintf("%3.0f%% %s", i.Score*100, i.Network.Security())
}
func (i candidateItem) FilterValue() string { return i.Network.SSID }

func toItems(results []match.Result) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = candidateItem{r}
	}
	return items
}

// itemDelegate renders one candidate per line.
type itemDelegate struct {
	dark bool
}

func (d itemDelegate) Height() int { return 1 }
func (d itemDelegate) Spacing() int { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(candidateItem)
	if !ok {
		return
	}

	icon := "🔒 "
	if !wifi.HasSecurityMarker(i.Network.Capabilities) {
		icon = "🔓 "
	}
	title := []rune(i.Title())
	if len(title) > ssidColumnWidth {
		title = append(title[:ssidColumnWidth-1], '…')
	}
	padding := strings.Repeat(" ", ssidColumnWidth-len(title))
	titleStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	if i.Score == 1 {
		titleStyle = titleStyle.Foreground(CurrentTheme.Success)
	}

	desc := lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render(i.Description())
	var signal string
	if i.Network.Level != nil {
		signal = lipgloss.NewStyle().
			Foreground(signalColor(*i.Network.Level, d.dark)).
			Render(fmt.Sprintf("%d dBm", *i.Network.Level))
	}

	line := icon + titleStyle.Render(string(title)) + padding + " " + desc + "  " + signal
	lineStyle := lipgloss.NewStyle().PaddingLeft(1)
	if index == m.Index() {
		lineStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true). // Left border
			BorderForeground(CurrentTheme.Primary)
	}
	fmt.Fprint(w, lineStyle.Render(line))
}

// RescanFunc produces a fresh ranking.
type RescanFunc func() ([]match.Result, error)

type rescannedMsg struct {
	results []match.Result
	err     error
}

type pickerModel struct {
	list    list.Model
	spinner spinner.Model
	rescan  RescanFunc

	loading bool
	status  string
	chosen  *wifi.Network
}

func newPicker(results []match.Result, target string, rescan RescanFunc, dark bool) *pickerModel {
	l := list.New(toItems(results), itemDelegate{dark: dark}, 0, 0)
	l.Title = fmt.Sprintf("Networks matching %q", target)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		keys := []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
			key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "cancel")),
		}
		if rescan != nil {
			keys = append(keys, key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")))
		}
		return keys
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys
	l.Styles.Title = lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(CurrentTheme.Normal)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	return &pickerModel{list: l, spinner: s, rescan: rescan}
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-2)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, tea.Quit
		case "q":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(candidateItem); ok {
				n := item.Network
				m.chosen = &n
				return m, tea.Quit
			}
			return m, nil
		case "s":
			if m.rescan == nil || m.loading {
				return m, nil
			}
			m.loading = true
			m.status = "Scanning for networks..."
			rescan := m.rescan
			return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
				results, err := rescan()
				return rescannedMsg{results, err}
			})
		}
	case rescannedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%d networks", len(msg.results))
		return m, m.list.SetItems(toItems(msg.results))
	case wifilog.LogMsg:
		if !m.loading {
			m.status = msg.Message
		}
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickerModel) View() string {
	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Margin(1, 2).Render(m.list.View()))
	if m.loading {
		s.WriteString(fmt.Sprintf("\n%s %s", m.spinner.View(), lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.status)))
	} else if m.status != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render(m.status))
	}
	return s.String()
}

// PickOption configures Pick.
type PickOption func(*pickConfig)

type pickConfig struct {
	rescan RescanFunc
	input  io.Reader
	output io.Writer
	noAlt  bool
}

// WithRescan enables the scan key.
func WithRescan(fn RescanFunc) PickOption { return func(c *pickConfig) { c.rescan = fn } }

// WithIO runs the picker on the given terminal streams instead of stdin and
// stdout, without the alternate screen.
func WithIO(in io.Reader, out io.Writer) PickOption {
	return func(c *pickConfig) {
		c.input, c.output, c.noAlt = in, out, true
	}
}

// Pick lets the user choose one of results. It returns false if the user
// cancelled, or if there was nothing to choose from.
func Pick(results []match.Result, target string, opts ...PickOption) (wifi.Network, bool, error) {
	var cfg pickConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(results) == 0 && cfg.rescan == nil {
		return wifi.Network{}, false, nil
	}

	var progOpts []tea.ProgramOption
	if cfg.noAlt {
		progOpts = append(progOpts, tea.WithInput(cfg.input), tea.WithOutput(cfg.output))
	} else {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(newPicker(results, target, cfg.rescan, lipgloss.HasDarkBackground()), progOpts...)

	// Forward log records to the footer while the picker runs.
	logs := make(chan tea.Msg, 16)
	done := make(chan struct{})
	wifilog.SetOutput(logs)
	defer wifilog.SetOutput(nil)
	go func() {
		for {
			select {
			case msg := <-logs:
				p.Send(msg)
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	final, err := p.Run()
	if err != nil {
		return wifi.Network{}, false, err
	}
	m := final.(*pickerModel)
	if m.chosen == nil {
		return wifi.Network{}, false, nil
	}
	return *m.chosen, true, nil
}
