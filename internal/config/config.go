package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/overlay"
	"github.com/1broseidon/curtain/internal/targeting"
)

// Hotkeys maps dimmer actions to X11 key sequences. An empty string leaves
// the action unbound.
type Hotkeys struct {
	Toggle   string `yaml:"toggle"`
	Lock     string `yaml:"lock"`
	Unlock   string `yaml:"unlock"`
	Increase string `yaml:"increase"`
	Decrease string `yaml:"decrease"`
	Menu     string `yaml:"menu"`
}

// HotkeyBinding is one configured key sequence.
type HotkeyBinding struct {
	Name string
	Keys string
}

// Bindings lists the non-empty hotkeys in a stable order.
func (h Hotkeys) Bindings() []HotkeyBinding {
	all := []HotkeyBinding{
		{Name: string(dimmer.HotkeyToggle), Keys: h.Toggle},
		{Name: string(dimmer.HotkeyLock), Keys: h.Lock},
		{Name: string(dimmer.HotkeyUnlock), Keys: h.Unlock},
		{Name: string(dimmer.HotkeyIncrease), Keys: h.Increase},
		{Name: string(dimmer.HotkeyDecrease), Keys: h.Decrease},
		{Name: HotkeyMenu, Keys: h.Menu},
	}
	out := all[:0]
	for _, b := range all {
		if strings.TrimSpace(b.Keys) != "" {
			out = append(out, b)
		}
	}
	return out
}

// HotkeyMenu is the binding name that opens the palette menu.
const HotkeyMenu = "menu"

const (
	DefaultRefreshIntervalMs = 200
	MinRefreshIntervalMs     = 20
	MaxRefreshIntervalMs     = 10000
)

// Config is the effective daemon configuration.
type Config struct {
	Hotkeys              Hotkeys `yaml:"hotkeys"`
	ToggleLevel          int     `yaml:"toggle_level"`
	AdjustStep           int     `yaml:"adjust_step"`
	RefreshIntervalMs    int     `yaml:"refresh_interval_ms"`
	MinWindowWidth       int     `yaml:"min_window_width"`
	MinWindowHeight      int     `yaml:"min_window_height"`
	Color                string  `yaml:"color"`
	Mode                 string  `yaml:"mode"`
	ExclusionDisplay     string  `yaml:"exclusion_display"`
	MenuLevels           []int   `yaml:"menu_levels"`
	PaletteBackend       string  `yaml:"palette_backend"`
	PaletteFuzzyMatching bool    `yaml:"palette_fuzzy_matching"`
	Display              string  `yaml:"display,omitempty"`
	XAuthority           string  `yaml:"xauthority,omitempty"`
	LogLevel             string  `yaml:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Hotkeys: Hotkeys{
			Toggle:   "Mod4-Mod1-d",
			Lock:     "Mod4-Mod1-l",
			Unlock:   "Mod4-Mod1-u",
			Increase: "Mod4-Mod1-bracketright",
			Decrease: "Mod4-Mod1-bracketleft",
			Menu:     "Mod4-Mod1-m",
		},
		ToggleLevel:       dimmer.DefaultToggleLevel,
		AdjustStep:        dimmer.DefaultAdjustStep,
		RefreshIntervalMs: DefaultRefreshIntervalMs,
		MinWindowWidth:    targeting.DefaultMinWidth,
		MinWindowHeight:   targeting.DefaultMinHeight,
		Color:             "black",
		Mode:              dimmer.ModeExcludeWindow.String(),
		ExclusionDisplay:  overlay.ExclusionPrimary.String(),
		MenuLevels:        []int{95, 90, 80, 70, 60},
		PaletteBackend:    "auto",
		LogLevel:          "info",
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.ToggleLevel < 1 || c.ToggleLevel > dimmer.MaxLevel {
		return &ValidationError{Path: "toggle_level", Err: fmt.Errorf("toggle_level must be between 1 and %d", dimmer.MaxLevel)}
	}
	if c.AdjustStep < 1 || c.AdjustStep > dimmer.MaxLevel {
		return &ValidationError{Path: "adjust_step", Err: fmt.Errorf("adjust_step must be between 1 and %d", dimmer.MaxLevel)}
	}
	if c.RefreshIntervalMs < MinRefreshIntervalMs || c.RefreshIntervalMs > MaxRefreshIntervalMs {
		return &ValidationError{Path: "refresh_interval_ms", Err: fmt.Errorf("refresh_interval_ms must be between %d and %d", MinRefreshIntervalMs, MaxRefreshIntervalMs)}
	}
	if c.MinWindowWidth < 0 {
		return &ValidationError{Path: "min_window_width", Err: fmt.Errorf("min_window_width must be >= 0")}
	}
	if c.MinWindowHeight < 0 {
		return &ValidationError{Path: "min_window_height", Err: fmt.Errorf("min_window_height must be >= 0")}
	}
	if _, err := dimmer.ParseColor(c.Color); err != nil {
		return &ValidationError{Path: "color", Err: err}
	}
	if _, err := dimmer.ParseMode(c.Mode); err != nil {
		return &ValidationError{Path: "mode", Err: err}
	}
	if _, err := overlay.ParseExclusionPolicy(c.ExclusionDisplay); err != nil {
		return &ValidationError{Path: "exclusion_display", Err: err}
	}
	for i, level := range c.MenuLevels {
		if level < 1 || level > dimmer.MaxLevel {
			return &ValidationError{Path: "menu_levels", Err: fmt.Errorf("menu_levels[%d] = %d, must be between 1 and %d", i, level, dimmer.MaxLevel)}
		}
	}
	switch c.PaletteBackend {
	case "auto", "rofi", "fuzzel", "dmenu", "wofi":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, dmenu, wofi")}
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}

	seen := make(map[string]string)
	for _, b := range c.Hotkeys.Bindings() {
		key := strings.ToLower(strings.TrimSpace(b.Keys))
		if prev, ok := seen[key]; ok {
			return &ValidationError{Path: "hotkeys." + b.Name, Err: fmt.Errorf("%q is already bound to %s", b.Keys, prev)}
		}
		seen[key] = b.Name
	}
	return nil
}

// DimmerSettings returns the controller tunables.
func (c *Config) DimmerSettings() dimmer.Settings {
	return dimmer.Settings{
		ToggleLevel:     c.ToggleLevel,
		AdjustStep:      c.AdjustStep,
		RefreshInterval: time.Duration(c.RefreshIntervalMs) * time.Millisecond,
	}
}

// SelectorPolicy returns the window selector thresholds.
func (c *Config) SelectorPolicy() targeting.Policy {
	return targeting.Policy{MinWidth: c.MinWindowWidth, MinHeight: c.MinWindowHeight}
}

// Exclusion returns the exclusion display policy. Validated configs never fail.
func (c *Config) Exclusion() overlay.ExclusionPolicy {
	p, _ := overlay.ParseExclusionPolicy(c.ExclusionDisplay)
	return p
}

// DimColor returns the initial tint, black when invalid.
func (c *Config) DimColor() dimmer.Color {
	color, err := dimmer.ParseColor(c.Color)
	if err != nil {
		return dimmer.Black
	}
	return color
}

// DimMode returns the initial dim mode.
func (c *Config) DimMode() dimmer.Mode {
	m, err := dimmer.ParseMode(c.Mode)
	if err != nil {
		return dimmer.ModeExcludeWindow
	}
	return m
}

// SlogLevel maps log_level onto slog.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLogLevel(c.LogLevel)
	return l
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of: debug, info, warning, error")
	}
}
