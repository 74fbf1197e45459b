package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawHotkeys distinguishes unset keys from keys set to "" (unbound).
type RawHotkeys struct {
	Toggle   *string `yaml:"toggle"`
	Lock     *string `yaml:"lock"`
	Unlock   *string `yaml:"unlock"`
	Increase *string `yaml:"increase"`
	Decrease *string `yaml:"decrease"`
	Menu     *string `yaml:"menu"`
}

// RawConfig is one YAML file as written; nil means "not set here".
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Hotkeys              *RawHotkeys `yaml:"hotkeys"`
	ToggleLevel          *int        `yaml:"toggle_level"`
	AdjustStep           *int        `yaml:"adjust_step"`
	RefreshIntervalMs    *int        `yaml:"refresh_interval_ms"`
	MinWindowWidth       *int        `yaml:"min_window_width"`
	MinWindowHeight      *int        `yaml:"min_window_height"`
	Color                *string     `yaml:"color"`
	Mode                 *string     `yaml:"mode"`
	ExclusionDisplay     *string     `yaml:"exclusion_display"`
	MenuLevels           []int       `yaml:"menu_levels"`
	PaletteBackend       *string     `yaml:"palette_backend"`
	PaletteFuzzyMatching *bool       `yaml:"palette_fuzzy_matching"`
	Display              *string     `yaml:"display"`
	XAuthority           *string     `yaml:"xauthority"`
	LogLevel             *string     `yaml:"log_level"`
}

// merge applies overlay on top of c; set fields in overlay win.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	if overlay.Hotkeys != nil {
		base := RawHotkeys{}
		if c.Hotkeys != nil {
			base = *c.Hotkeys
		}
		merged := mergeRawHotkeys(base, *overlay.Hotkeys)
		out.Hotkeys = &merged
	}
	if overlay.ToggleLevel != nil {
		out.ToggleLevel = overlay.ToggleLevel
	}
	if overlay.AdjustStep != nil {
		out.AdjustStep = overlay.AdjustStep
	}
	if overlay.RefreshIntervalMs != nil {
		out.RefreshIntervalMs = overlay.RefreshIntervalMs
	}
	if overlay.MinWindowWidth != nil {
		out.MinWindowWidth = overlay.MinWindowWidth
	}
	if overlay.MinWindowHeight != nil {
		out.MinWindowHeight = overlay.MinWindowHeight
	}
	if overlay.Color != nil {
		out.Color = overlay.Color
	}
	if overlay.Mode != nil {
		out.Mode = overlay.Mode
	}
	if overlay.ExclusionDisplay != nil {
		out.ExclusionDisplay = overlay.ExclusionDisplay
	}
	if overlay.MenuLevels != nil {
		out.MenuLevels = append([]int(nil), overlay.MenuLevels...)
	}
	if overlay.PaletteBackend != nil {
		out.PaletteBackend = overlay.PaletteBackend
	}
	if overlay.PaletteFuzzyMatching != nil {
		out.PaletteFuzzyMatching = overlay.PaletteFuzzyMatching
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	return out
}

func mergeRawHotkeys(base RawHotkeys, overlay RawHotkeys) RawHotkeys {
	out := base
	if overlay.Toggle != nil {
		out.Toggle = overlay.Toggle
	}
	if overlay.Lock != nil {
		out.Lock = overlay.Lock
	}
	if overlay.Unlock != nil {
		out.Unlock = overlay.Unlock
	}
	if overlay.Increase != nil {
		out.Increase = overlay.Increase
	}
	if overlay.Decrease != nil {
		out.Decrease = overlay.Decrease
	}
	if overlay.Menu != nil {
		out.Menu = overlay.Menu
	}
	return out
}
