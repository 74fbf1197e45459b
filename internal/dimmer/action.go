package dimmer

import (
	"fmt"
	"strings"
)

// Action is an input to the dimmer. The set of implementations is closed;
// Controller.Dispatch switches over all of them.
type Action interface {
	isAction()
}

type (
	// Toggle switches between off and the toggle level.
	Toggle struct{}
	// Adjust changes the level by Delta, clamped to 0..100.
	Adjust struct{ Delta int }
	// SetLevel jumps to Level; 0 turns dimming off.
	SetLevel struct{ Level int }
	// SetColor changes the tint.
	SetColor struct{ Color Color }
	// SetMode switches between window exclusion and screen-wide dimming.
	SetMode struct{ Mode Mode }
	// Lock pins the frontmost process's best window.
	Lock struct{}
	// Unlock clears the pinned window.
	Unlock struct{}
	// FrontmostChanged reports a focus change. PID is the new frontmost
	// process; 0 means the controller looks it up itself.
	FrontmostChanged struct{ PID int }
	// Tick is the periodic refresh.
	Tick struct{}
	// DisplaysChanged reports a display topology change.
	DisplaysChanged struct{}
)

func (Toggle) isAction()           {}
func (Adjust) isAction()           {}
func (SetLevel) isAction()         {}
func (SetColor) isAction()         {}
func (SetMode) isAction()          {}
func (Lock) isAction()             {}
func (Unlock) isAction()           {}
func (FrontmostChanged) isAction() {}
func (Tick) isAction()             {}
func (DisplaysChanged) isAction()  {}

// HotkeyAction names a bindable hotkey.
type HotkeyAction string

const (
	HotkeyToggle   HotkeyAction = "toggle"
	HotkeyLock     HotkeyAction = "lock"
	HotkeyUnlock   HotkeyAction = "unlock"
	HotkeyIncrease HotkeyAction = "increase"
	HotkeyDecrease HotkeyAction = "decrease"
)

// HotkeyActions lists the bindable hotkeys in a stable order.
func HotkeyActions() []HotkeyAction {
	return []HotkeyAction{HotkeyToggle, HotkeyLock, HotkeyUnlock, HotkeyIncrease, HotkeyDecrease}
}

// ActionForHotkey maps a hotkey to its action; step is the adjust delta.
func ActionForHotkey(h HotkeyAction, step int) (Action, error) {
	switch h {
	case HotkeyToggle:
		return Toggle{}, nil
	case HotkeyLock:
		return Lock{}, nil
	case HotkeyUnlock:
		return Unlock{}, nil
	case HotkeyIncrease:
		return Adjust{Delta: step}, nil
	case HotkeyDecrease:
		return Adjust{Delta: -step}, nil
	default:
		return nil, fmt.Errorf("unknown hotkey action %q", h)
	}
}

// Describe renders an action for logs.
func Describe(a Action) string {
	switch a := a.(type) {
	case Toggle:
		return "toggle"
	case Adjust:
		return fmt.Sprintf("adjust(%+d)", a.Delta)
	case SetLevel:
		return fmt.Sprintf("set-level(%d)", a.Level)
	case SetColor:
		return "set-color(" + a.Color.String() + ")"
	case SetMode:
		return "set-mode(" + a.Mode.String() + ")"
	case Lock:
		return "lock"
	case Unlock:
		return "unlock"
	case FrontmostChanged:
		return fmt.Sprintf("frontmost(%d)", a.PID)
	case Tick:
		return "tick"
	case DisplaysChanged:
		return "displays-changed"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", a), "dimmer.")
	}
}
