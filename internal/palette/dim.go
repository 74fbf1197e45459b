package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/ipc"
)

// Menu actions produced by DimMenu.
const (
	ActionLock         = "lock"
	ActionUnlock       = "unlock"
	ActionAutostartOn  = "autostart:on"
	ActionAutostartOff = "autostart:off"
	ActionQuit         = "quit"

	levelPrefix = "level:"
	colorPrefix = "color:"
	modePrefix  = "mode:"
)

// DimMenu builds the dim menu for the current daemon status. levels are the
// preset percentages listed after Off.
func DimMenu(st ipc.StatusData, levels []int, autostart bool) []MenuItem {
	items := []MenuItem{{
		Label:   "Off",
		Action:  levelPrefix + "0",
		Icon:    "display-brightness-symbolic",
		Current: st.Level == 0,
	}}
	for _, n := range levels {
		items = append(items, MenuItem{
			Label:   fmt.Sprintf("%d%%", n),
			Action:  levelPrefix + strconv.Itoa(n),
			Current: st.Level == n,
		})
	}

	colors := make([]MenuItem, 0, len(dimmer.Presets()))
	for _, p := range dimmer.Presets() {
		colors = append(colors, MenuItem{
			Label:   p.Label,
			Action:  colorPrefix + p.Name,
			Current: st.Color == p.Name,
		})
	}
	items = append(items, MenuItem{Label: "Dim Color", Icon: "preferences-color", Submenu: colors})

	var modes []MenuItem
	for _, m := range []dimmer.Mode{dimmer.ModeExcludeWindow, dimmer.ModeScreenWide} {
		modes = append(modes, MenuItem{
			Label:   m.Label(),
			Action:  modePrefix + m.String(),
			Current: st.Mode == m.String(),
		})
	}
	items = append(items, MenuItem{Label: "Dimming Mode", Icon: "view-fullscreen", Submenu: modes})

	if st.Locked {
		items = append(items, MenuItem{Label: "Unlock Window", Action: ActionUnlock, Icon: "changes-allow"})
	} else {
		items = append(items, MenuItem{Label: "Lock Current Window", Action: ActionLock, Icon: "changes-prevent"})
	}

	if autostart {
		items = append(items, MenuItem{Label: "Launch at Login ✓", Action: ActionAutostartOff, Current: true})
	} else {
		items = append(items, MenuItem{Label: "Launch at Login", Action: ActionAutostartOn})
	}

	return append(items, MenuItem{Label: "Quit", Action: ActionQuit, Icon: "application-exit"})
}

// StatusMessage summarizes st for the launcher message bar.
func StatusMessage(st ipc.StatusData) string {
	if !st.Active {
		return "Dimming off"
	}
	msg := fmt.Sprintf("Dimmed %d%% · %s · %s", st.Level, st.Color, st.Mode)
	if st.Locked {
		msg += " · locked"
	}
	return msg
}

// ParseDimAction maps a level, color or mode menu action to a dimmer action.
// ok is false for the other menu actions.
func ParseDimAction(action string) (a dimmer.Action, ok bool, err error) {
	switch {
	case strings.HasPrefix(action, levelPrefix):
		n, err := strconv.Atoi(strings.TrimPrefix(action, levelPrefix))
		if err != nil || n < 0 || n > dimmer.MaxLevel {
			return nil, true, fmt.Errorf("invalid level action %q", action)
		}
		return dimmer.SetLevel{Level: n}, true, nil
	case strings.HasPrefix(action, colorPrefix):
		c, err := dimmer.ParseColor(strings.TrimPrefix(action, colorPrefix))
		if err != nil {
			return nil, true, err
		}
		return dimmer.SetColor{Color: c}, true, nil
	case strings.HasPrefix(action, modePrefix):
		m, err := dimmer.ParseMode(strings.TrimPrefix(action, modePrefix))
		if err != nil {
			return nil, true, err
		}
		return dimmer.SetMode{Mode: m}, true, nil
	case action == ActionLock:
		return dimmer.Lock{}, true, nil
	case action == ActionUnlock:
		return dimmer.Unlock{}, true, nil
	}
	return nil, false, nil
}
