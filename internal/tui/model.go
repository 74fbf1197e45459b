package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/ipc"
)

const pollInterval = time.Second

type keyMap struct {
	Toggle   key.Binding
	Increase key.Binding
	Decrease key.Binding
	Level    key.Binding
	Color    key.Binding
	Mode     key.Binding
	Lock     key.Binding
	Unlock   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Increase: key.NewBinding(key.WithKeys("+", "=", "right"), key.WithHelp("+", "dim more")),
		Decrease: key.NewBinding(key.WithKeys("-", "left"), key.WithHelp("-", "dim less")),
		Level:    key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "level")),
		Color:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "color")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		Lock:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lock")),
		Unlock:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlock")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Increase, k.Decrease, k.Level, k.Color, k.Mode, k.Lock, k.Unlock, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Increase, k.Decrease, k.Level},
		{k.Color, k.Mode, k.Lock, k.Unlock},
		{k.Refresh, k.Quit},
	}
}

// statusMsg carries the daemon's answer to a request.
type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type pollMsg struct{}

type model struct {
	daemon Daemon
	keys   keyMap
	help   help.Model

	status *ipc.StatusData
	err    error

	width int
}

func newModel(d Daemon) model {
	return model{
		daemon: d,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

func (m model) request(fn func() (*ipc.StatusData, error)) tea.Cmd {
	return func() tea.Msg {
		st, err := fn()
		return statusMsg{status: st, err: err}
	}
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.request(m.daemon.GetStatus), poll())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case statusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		return m, nil

	case pollMsg:
		return m, tea.Batch(m.request(m.daemon.GetStatus), poll())

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		return m.request(m.daemon.Toggle)
	case key.Matches(msg, m.keys.Increase):
		step := m.step()
		return m.request(func() (*ipc.StatusData, error) { return m.daemon.Adjust(step) })
	case key.Matches(msg, m.keys.Decrease):
		step := m.step()
		return m.request(func() (*ipc.StatusData, error) { return m.daemon.Adjust(-step) })
	case key.Matches(msg, m.keys.Level):
		level := quickLevel(msg.String())
		return m.request(func() (*ipc.StatusData, error) { return m.daemon.SetLevel(level) })
	case key.Matches(msg, m.keys.Color):
		next := nextColor(m.currentColor())
		return m.request(func() (*ipc.StatusData, error) { return m.daemon.SetColor(next) })
	case key.Matches(msg, m.keys.Mode):
		next := dimmer.ModeScreenWide.String()
		if m.status != nil && m.status.Mode == next {
			next = dimmer.ModeExcludeWindow.String()
		}
		return m.request(func() (*ipc.StatusData, error) { return m.daemon.SetMode(next) })
	case key.Matches(msg, m.keys.Lock):
		return m.request(m.daemon.Lock)
	case key.Matches(msg, m.keys.Unlock):
		return m.request(m.daemon.Unlock)
	case key.Matches(msg, m.keys.Refresh):
		return m.request(m.daemon.GetStatus)
	}
	return nil
}

func (m model) step() int {
	if m.status != nil && m.status.AdjustStep > 0 {
		return m.status.AdjustStep
	}
	return dimmer.DefaultAdjustStep
}

func (m model) currentColor() string {
	if m.status == nil {
		return ""
	}
	return m.status.Color
}

// quickLevel maps digit keys to levels: 0 is off, 1-9 are 10%-90%.
func quickLevel(k string) int {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return 0
	}
	return int(k[0]-'0') * 10
}

// nextColor cycles through the presets. Custom colors restart the cycle.
func nextColor(current string) string {
	presets := dimmer.Presets()
	for i, p := range presets {
		if p.Name == current {
			return presets[(i+1)%len(presets)].Name
		}
	}
	return presets[0].Name
}
