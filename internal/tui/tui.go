// Package tui is an interactive control panel for the running daemon.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/curtain/internal/ipc"
)

// Daemon is the subset of the IPC client the panel drives.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	Toggle() (*ipc.StatusData, error)
	SetLevel(level int) (*ipc.StatusData, error)
	Adjust(delta int) (*ipc.StatusData, error)
	SetColor(color string) (*ipc.StatusData, error)
	SetMode(mode string) (*ipc.StatusData, error)
	Lock() (*ipc.StatusData, error)
	Unlock() (*ipc.StatusData, error)
}

// Run opens the panel on the current terminal.
func Run(d Daemon) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
