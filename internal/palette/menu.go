package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	actionBack    = "__back__"
	submenuPrefix = "__submenu__:"
)

// MenuItem is a node of a menu tree. Items with a Submenu open it when chosen.
type MenuItem struct {
	Label   string
	Action  string
	Icon    string
	Header  bool
	Current bool
	Submenu []MenuItem
}

// Menu walks a menu tree with a backend.
type Menu struct {
	backend Backend
	root    []MenuItem
	prompt  string
	message string
}

// NewMenu creates a menu over items.
func NewMenu(backend Backend, prompt string, items []MenuItem) *Menu {
	return &Menu{backend: backend, root: items, prompt: prompt}
}

// SetMessage sets the status line shown by launchers that have one.
func (m *Menu) SetMessage(msg string) {
	m.message = msg
}

// Show runs the menu and returns the action of the chosen leaf, or
// ErrCancelled when the user leaves the top level.
func (m *Menu) Show() (string, error) {
	return m.show(m.root, m.prompt, false)
}

func (m *Menu) show(level []MenuItem, prompt string, nested bool) (string, error) {
	if len(level) == 0 {
		return "", fmt.Errorf("menu: no items to show")
	}

	items := make([]Item, 0, len(level)+1)
	if nested {
		items = append(items, Item{Label: "← Back", Action: actionBack, Icon: "go-previous"})
	}
	for i, mi := range level {
		it := Item{Label: mi.Label, Action: mi.Action, Icon: mi.Icon, Header: mi.Header, Current: mi.Current}
		if len(mi.Submenu) > 0 {
			it.Label += " →"
			it.Action = submenuPrefix + strconv.Itoa(i)
		}
		items = append(items, it)
	}

	for {
		chosen, err := m.backend.Show(prompt, items, m.message)
		if err != nil {
			return "", err
		}
		switch {
		case chosen.Header || chosen.Action == "":
			continue
		case chosen.Action == actionBack:
			return "", ErrCancelled
		case strings.HasPrefix(chosen.Action, submenuPrefix):
			idx, err := strconv.Atoi(strings.TrimPrefix(chosen.Action, submenuPrefix))
			if err != nil || idx < 0 || idx >= len(level) {
				continue
			}
			action, err := m.show(level[idx].Submenu, level[idx].Label, true)
			if errors.Is(err, ErrCancelled) {
				continue
			}
			return action, err
		default:
			return chosen.Action, nil
		}
	}
}
