// Package palette shows menus through external dmenu-style launchers.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without choosing.
var ErrCancelled = errors.New("palette cancelled")

// Item is one row shown by a launcher.
type Item struct {
	Label string
	// Action is returned to the caller when the row is chosen.
	Action string
	Icon   string
	// Header rows are shown but cannot be chosen.
	Header bool
	// Current marks the row reflecting the active state.
	Current bool
}

// Backend shows a list of items and returns the chosen one.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
	Name() string
}

// launcherOrder is the auto-detect priority.
var launcherOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

var lookPath = exec.LookPath

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range launcherOrder {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(launcherOrder, ", "))
}

// NewBackend creates the named backend. "" and "auto" detect one. fuzzy
// enables fuzzy matching where the launcher supports it.
func NewBackend(name string, fuzzy bool) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	l, ok := newLauncher(name)
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(launcherOrder, ", "))
	}
	if _, err := lookPath(l.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	l.fuzzy = fuzzy
	return l, nil
}
