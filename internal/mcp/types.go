package mcp

import "github.com/1broseidon/curtain/internal/ipc"

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// SetLevelInput is the input for set_dim_level.
type SetLevelInput struct {
	Level int `json:"level" jsonschema:"Dim level in percent, 0 (off) to 100"`
}

// AdjustInput is the input for adjust_dim.
type AdjustInput struct {
	Delta int `json:"delta" jsonschema:"Percent points to add to the level; negative values dim less. The result is clamped to 0..100"`
}

// SetColorInput is the input for set_dim_color.
type SetColorInput struct {
	Color string `json:"color" jsonschema:"Preset name (black, warm, sepia, gray) or #rrggbb"`
}

// SetModeInput is the input for set_dim_mode.
type SetModeInput struct {
	Mode string `json:"mode" jsonschema:"exclude-window leaves the focused window undimmed; screen-wide dims everything"`
}

// StatusOutput is returned by every dim tool.
type StatusOutput struct {
	Status ipc.StatusData `json:"status"`
}

// DisplaysOutput is returned by list_displays.
type DisplaysOutput struct {
	Displays []ipc.DisplayInfo `json:"displays"`
}
