package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths are the top-level keys (toggle_level, color, menu_levels,
// log_level, ...) and hotkeys.<action>.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Paths lists every explainable path.
func Paths() []string {
	return []string{
		"hotkeys.toggle",
		"hotkeys.lock",
		"hotkeys.unlock",
		"hotkeys.increase",
		"hotkeys.decrease",
		"hotkeys.menu",
		"toggle_level",
		"adjust_step",
		"refresh_interval_ms",
		"min_window_width",
		"min_window_height",
		"color",
		"mode",
		"exclusion_display",
		"menu_levels",
		"palette_backend",
		"palette_fuzzy_matching",
		"display",
		"xauthority",
		"log_level",
	}
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "hotkeys" {
		if len(parts) == 1 {
			return cfg.Hotkeys, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "toggle":
			return cfg.Hotkeys.Toggle, nil
		case "lock":
			return cfg.Hotkeys.Lock, nil
		case "unlock":
			return cfg.Hotkeys.Unlock, nil
		case "increase":
			return cfg.Hotkeys.Increase, nil
		case "decrease":
			return cfg.Hotkeys.Decrease, nil
		case "menu":
			return cfg.Hotkeys.Menu, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	if len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch path {
	case "toggle_level":
		return cfg.ToggleLevel, nil
	case "adjust_step":
		return cfg.AdjustStep, nil
	case "refresh_interval_ms":
		return cfg.RefreshIntervalMs, nil
	case "min_window_width":
		return cfg.MinWindowWidth, nil
	case "min_window_height":
		return cfg.MinWindowHeight, nil
	case "color":
		return cfg.Color, nil
	case "mode":
		return cfg.Mode, nil
	case "exclusion_display":
		return cfg.ExclusionDisplay, nil
	case "menu_levels":
		return cfg.MenuLevels, nil
	case "palette_backend":
		return cfg.PaletteBackend, nil
	case "palette_fuzzy_matching":
		return cfg.PaletteFuzzyMatching, nil
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "log_level":
		return cfg.LogLevel, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
