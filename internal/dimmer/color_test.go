package dimmer

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "black", want: Black},
		{in: " Warm ", want: Warm},
		{in: "grey", want: Gray},
		{in: "#ff8000", want: Color{R: 255, G: 128, B: 0}},
		{in: "#FFFFFF", want: Color{R: 255, G: 255, B: 255}},
		{in: "ff8000", wantErr: true},
		{in: "#ff80", wantErr: true},
		{in: "#gg0000", wantErr: true},
		{in: "purple", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseColor(%q) expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorString(t *testing.T) {
	if got := Sepia.String(); got != "sepia" {
		t.Fatalf("Sepia.String() = %q", got)
	}
	c := Color{R: 1, G: 2, B: 3}
	if got := c.String(); got != "#010203" {
		t.Fatalf("String() = %q, want #010203", got)
	}
	if got := c.Pixel(); got != 0x010203 {
		t.Fatalf("Pixel() = %#x, want 0x010203", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"exclude-window": ModeExcludeWindow,
		"screen-wide":    ModeScreenWide,
		"SCREEN":         ModeScreenWide,
	} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("blur"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestActionForHotkey(t *testing.T) {
	a, err := ActionForHotkey(HotkeyDecrease, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj, ok := a.(Adjust); !ok || adj.Delta != -5 {
		t.Fatalf("decrease = %#v, want Adjust{-5}", a)
	}
	if _, err := ActionForHotkey("menu", 5); err == nil {
		t.Fatalf("menu is not a dimmer action")
	}
}
