package dimmer

import (
	"fmt"
	"strings"

	"github.com/1broseidon/curtain/internal/targeting"
)

const (
	MaxLevel           = 100
	DefaultToggleLevel = 80
	DefaultAdjustStep  = 5
)

// Mode selects whether the resolved window is cut out of the dim.
type Mode int

const (
	// ModeExcludeWindow leaves the target window undimmed.
	ModeExcludeWindow Mode = iota
	// ModeScreenWide dims every display uniformly.
	ModeScreenWide
)

// String returns the config/CLI name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeExcludeWindow:
		return "exclude-window"
	case ModeScreenWide:
		return "screen-wide"
	default:
		return "unknown"
	}
}

// Label returns the menu label of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeScreenWide:
		return "Dim Entire Screen"
	default:
		return "Exclude Current Window"
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exclude-window", "exclude", "window":
		return ModeExcludeWindow, nil
	case "screen-wide", "screen", "full":
		return ModeScreenWide, nil
	default:
		return 0, fmt.Errorf("invalid mode %q (expected exclude-window or screen-wide)", s)
	}
}

// Phase is the coarse dimmer state.
type Phase int

const (
	// PhaseInactive means level 0: no refresh, surfaces hidden.
	PhaseInactive Phase = iota
	// PhaseActive means level > 0 with periodic refresh running.
	PhaseActive
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// State is the user-controlled dim state.
type State struct {
	Level int
	Color Color
	Mode  Mode
	Lock  targeting.Lock
}

// Phase derives the phase from the level.
func (s State) Phase() Phase {
	if s.Level > 0 {
		return PhaseActive
	}
	return PhaseInactive
}

// Active reports whether dimming is on.
func (s State) Active() bool {
	return s.Phase() == PhaseActive
}

// Snapshot is a read-only view of the controller for status reporting.
type Snapshot struct {
	State
	Resolution targeting.Resolution
	Displays   int
}

func clampLevel(n int) int {
	return min(max(n, 0), MaxLevel)
}
