package dimmer

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an opaque RGB dim tint. The overlay alpha comes from the dim level.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Preset tints.
var (
	Black = Color{0, 0, 0}
	Warm  = Color{255, 179, 102}
	Sepia = Color{230, 204, 153}
	Gray  = Color{128, 128, 128}
)

// NamedColor is a preset tint offered in menus.
type NamedColor struct {
	Name  string
	Label string
	Color Color
}

// Presets lists the built-in tints in menu order.
func Presets() []NamedColor {
	return []NamedColor{
		{Name: "black", Label: "Black", Color: Black},
		{Name: "warm", Label: "Blue Light Filter", Color: Warm},
		{Name: "sepia", Label: "Sepia", Color: Sepia},
		{Name: "gray", Label: "Gray", Color: Gray},
	}
}

// ParseColor accepts a preset name or a #rrggbb hex value.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Presets() {
		if v == p.Name {
			return p.Color, nil
		}
	}
	if v == "grey" {
		return Gray, nil
	}

	hex := strings.TrimPrefix(v, "#")
	if len(hex) != 6 || hex == v {
		return Color{}, fmt.Errorf("invalid color %q (expected black, warm, sepia, gray or #rrggbb)", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// Hex returns the #rrggbb form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Pixel returns the color as a 24-bit TrueColor pixel value.
func (c Color) Pixel() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// String returns the preset name when c is a preset, else the hex form.
func (c Color) String() string {
	for _, p := range Presets() {
		if p.Color == c {
			return p.Name
		}
	}
	return c.Hex()
}
