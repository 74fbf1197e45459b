package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/curtain/internal/config"
	"github.com/1broseidon/curtain/internal/ipc"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "off", want: 0},
		{in: "OFF", want: 0},
		{in: "55", want: 55},
		{in: "80%", want: 80},
		{in: " 100 ", want: 100},
		{in: "101", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "dim", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseLevel(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLevel(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseLevel(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatSource(t *testing.T) {
	cases := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
	}
	for _, tc := range cases {
		if got := formatSource(tc.src); got != tc.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{
		Active:       true,
		Level:        70,
		Color:        "warm",
		ColorHex:     "#ffb366",
		Mode:         "exclude-window",
		Locked:       true,
		LockedWindow: 0x2a,
		Target:       &ipc.TargetInfo{Window: 0x2a, Source: "locked", X: 10, Y: 20, Width: 800, Height: 600},
		Displays:     2,
	})
	out := buf.String()
	for _, want := range []string{
		"active:         true",
		"color:          warm (#ffb366)",
		"locked_window:  0x2a",
		"target:         0x2a (locked) 800x600+10+20",
		"displays:       2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStatus_Inactive(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, &ipc.StatusData{Color: "black", ColorHex: "#000000", Mode: "screen-wide"})
	out := buf.String()
	if !strings.Contains(out, "locked_window:  none") || !strings.Contains(out, "target:         none") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
