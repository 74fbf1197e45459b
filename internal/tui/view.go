package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/curtain/internal/ipc"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(10)

	onStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)
)

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("curtain"))
	b.WriteString("\n\n")

	if m.status == nil {
		if m.err != nil {
			b.WriteString(errStyle.Render("daemon not reachable: " + m.err.Error()))
		} else {
			b.WriteString(offStyle.Render("connecting..."))
		}
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(panelStyle.Render(renderStatus(m.status)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderStatus(st *ipc.StatusData) string {
	rows := []string{
		row("Dimming", stateLabel(st)),
		row("Level", levelBar(st.Level)),
		row("Color", colorSwatch(st)),
		row("Mode", st.Mode),
		row("Lock", lockLabel(st)),
		row("Target", targetLabel(st.Target)),
		row("Displays", fmt.Sprintf("%d", st.Displays)),
	}
	return strings.Join(rows, "\n")
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func stateLabel(st *ipc.StatusData) string {
	if st.Active {
		return onStyle.Render("on")
	}
	return offStyle.Render("off")
}

// levelBar draws level as a fixed-width bar.
func levelBar(level int) string {
	filled := level * barWidth / 100
	return fmt.Sprintf("%s%s %3d%%",
		strings.Repeat("█", filled),
		offStyle.Render(strings.Repeat("░", barWidth-filled)),
		level)
}

func colorSwatch(st *ipc.StatusData) string {
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(st.ColorHex)).Render("  ")
	return swatch + " " + st.Color
}

func lockLabel(st *ipc.StatusData) string {
	if !st.Locked {
		return offStyle.Render("none")
	}
	return fmt.Sprintf("window 0x%x", st.LockedWindow)
}

func targetLabel(t *ipc.TargetInfo) string {
	if t == nil {
		return offStyle.Render("none")
	}
	return fmt.Sprintf("0x%x (%s) %dx%d at %d,%d", t.Window, t.Source, t.Width, t.Height, t.X, t.Y)
}
