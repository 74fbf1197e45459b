package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if pos := e.Source.Position(); pos != "" {
		return fmt.Sprintf("%s: %s: %v", pos, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Hotkeys != nil {
		h := raw.Hotkeys
		setString(&cfg.Hotkeys.Toggle, h.Toggle)
		setString(&cfg.Hotkeys.Lock, h.Lock)
		setString(&cfg.Hotkeys.Unlock, h.Unlock)
		setString(&cfg.Hotkeys.Increase, h.Increase)
		setString(&cfg.Hotkeys.Decrease, h.Decrease)
		setString(&cfg.Hotkeys.Menu, h.Menu)
	}
	cfg.ToggleLevel = derefInt(raw.ToggleLevel, cfg.ToggleLevel)
	cfg.AdjustStep = derefInt(raw.AdjustStep, cfg.AdjustStep)
	cfg.RefreshIntervalMs = derefInt(raw.RefreshIntervalMs, cfg.RefreshIntervalMs)
	cfg.MinWindowWidth = derefInt(raw.MinWindowWidth, cfg.MinWindowWidth)
	cfg.MinWindowHeight = derefInt(raw.MinWindowHeight, cfg.MinWindowHeight)

	setString(&cfg.Color, raw.Color)
	setString(&cfg.Mode, raw.Mode)
	setString(&cfg.ExclusionDisplay, raw.ExclusionDisplay)
	setString(&cfg.PaletteBackend, raw.PaletteBackend)
	setString(&cfg.Display, raw.Display)
	setString(&cfg.XAuthority, raw.XAuthority)
	setString(&cfg.LogLevel, raw.LogLevel)

	if raw.MenuLevels != nil {
		cfg.MenuLevels = append([]int(nil), raw.MenuLevels...)
	}
	if raw.PaletteFuzzyMatching != nil {
		cfg.PaletteFuzzyMatching = *raw.PaletteFuzzyMatching
	}

	cfg.Color = strings.TrimSpace(cfg.Color)
	cfg.Mode = strings.TrimSpace(cfg.Mode)
	cfg.ExclusionDisplay = strings.TrimSpace(cfg.ExclusionDisplay)
	cfg.PaletteBackend = strings.ToLower(strings.TrimSpace(cfg.PaletteBackend))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	return cfg, nil
}

func setString(dst *string, p *string) {
	if p != nil {
		*dst = *p
	}
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
