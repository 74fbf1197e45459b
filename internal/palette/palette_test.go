package palette

import (
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/ipc"
)

type call struct {
	command string
	args    []string
	input   string
}

func fakeLauncher(t *testing.T, name string, out string, err error) (*launcher, *call) {
	t.Helper()
	l, ok := newLauncher(name)
	if !ok {
		t.Fatalf("unknown launcher %q", name)
	}
	c := &call{}
	l.run = func(command string, args []string, input string) (string, error) {
		c.command, c.args, c.input = command, args, input
		return out, err
	}
	return l, c
}

func hasArgs(args []string, want ...string) bool {
	for i := 0; i+len(want) <= len(args); i++ {
		match := true
		for j := range want {
			if args[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestRofi_IndexSelectionAndMarkup(t *testing.T) {
	l, c := fakeLauncher(t, "rofi", "2\n", nil)
	items := []Item{
		{Label: "Levels", Header: true},
		{Label: "Off", Action: "level:0", Icon: "display"},
		{Label: "80% <b>", Action: "level:80", Current: true},
	}

	got, err := l.Show("curtain", items, "Dimmed 80%")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if got.Action != "level:80" {
		t.Fatalf("expected level:80, got %+v", got)
	}
	if !hasArgs(c.args, "-format", "i") || !hasArgs(c.args, "-no-custom") {
		t.Fatalf("expected index output args, got %v", c.args)
	}
	if !hasArgs(c.args, "-a", "2") || !hasArgs(c.args, "-mesg", "Dimmed 80%") {
		t.Fatalf("expected current row and message, got %v", c.args)
	}

	lines := strings.Split(c.input, "\n")
	if lines[0] != "<b>Levels</b>\x00nonselectable\x1ftrue" {
		t.Fatalf("unexpected header row %q", lines[0])
	}
	if lines[1] != "Off\x00icon\x1fdisplay" {
		t.Fatalf("unexpected icon row %q", lines[1])
	}
	if lines[2] != "80% &lt;b&gt;" {
		t.Fatalf("expected escaped label, got %q", lines[2])
	}
}

func TestRofi_FuzzyMatching(t *testing.T) {
	l, c := fakeLauncher(t, "rofi", "0", nil)
	l.fuzzy = true
	if _, err := l.Show("p", []Item{{Label: "a", Action: "a"}}, ""); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !hasArgs(c.args, "-matching", "fuzzy") {
		t.Fatalf("expected fuzzy matching, got %v", c.args)
	}
}

func TestDmenu_MatchesByLabelWithDuplicates(t *testing.T) {
	l, c := fakeLauncher(t, "dmenu", "Same (2)\n", nil)
	items := []Item{
		{Label: "Same", Action: "first"},
		{Label: "Same", Action: "second"},
		{Label: "Now", Action: "now", Current: true},
	}

	got, err := l.Show("curtain", items, "")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if got.Action != "second" {
		t.Fatalf("expected second, got %+v", got)
	}
	if c.input != "Same\nSame (2)\n● Now" {
		t.Fatalf("unexpected input %q", c.input)
	}
	if !hasArgs(c.args, "-p", "curtain") {
		t.Fatalf("expected prompt arg, got %v", c.args)
	}
}

func TestLauncher_EmptyOutputIsCancel(t *testing.T) {
	l, _ := fakeLauncher(t, "fuzzel", "", nil)
	if _, err := l.Show("p", []Item{{Label: "a"}}, ""); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestLauncher_IndexOutOfRange(t *testing.T) {
	l, _ := fakeLauncher(t, "fuzzel", "5", nil)
	if _, err := l.Show("p", []Item{{Label: "a"}}, ""); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestNewBackend(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) {
		if name == "wofi" || name == "dmenu" {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}

	b, err := NewBackend("auto", false)
	if err != nil {
		t.Fatalf("auto: %v", err)
	}
	if b.Name() != "wofi" {
		t.Fatalf("expected wofi to be detected first, got %s", b.Name())
	}
	if _, err := NewBackend("rofi", false); err == nil {
		t.Fatalf("expected error for missing rofi")
	}
	if _, err := NewBackend("walker", false); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

// scriptedBackend returns the item with the next scripted action.
type scriptedBackend struct {
	picks   []string
	prompts []string
}

func (s *scriptedBackend) Name() string { return "scripted" }

func (s *scriptedBackend) Show(prompt string, items []Item, _ string) (Item, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.picks) == 0 {
		return Item{}, ErrCancelled
	}
	pick := s.picks[0]
	s.picks = s.picks[1:]
	for _, it := range items {
		if it.Label == pick {
			return it, nil
		}
	}
	return Item{}, errors.New("no such item: " + pick)
}

func TestMenu_SubmenuAndBack(t *testing.T) {
	b := &scriptedBackend{picks: []string{"Dim Color →", "← Back", "Dim Color →", "Sepia"}}
	items := DimMenu(ipc.StatusData{Level: 80, Color: "black", Mode: "exclude-window"}, []int{80}, false)

	action, err := NewMenu(b, "curtain", items).Show()
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if action != "color:sepia" {
		t.Fatalf("expected color:sepia, got %q", action)
	}
	want := []string{"curtain", "Dim Color", "curtain", "Dim Color"}
	if strings.Join(b.prompts, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected prompts %v", b.prompts)
	}
}

func TestMenu_CancelAtTopLevel(t *testing.T) {
	b := &scriptedBackend{}
	if _, err := NewMenu(b, "curtain", []MenuItem{{Label: "Quit", Action: ActionQuit}}).Show(); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestDimMenu_MarksCurrentState(t *testing.T) {
	st := ipc.StatusData{Active: true, Level: 70, Color: "warm", Mode: "screen-wide", Locked: true}
	items := DimMenu(st, []int{95, 90, 80, 70, 60}, true)

	labels := make([]string, 0, len(items))
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	want := "Off,95%,90%,80%,70%,60%,Dim Color,Dimming Mode,Unlock Window,Launch at Login ✓,Quit"
	if got := strings.Join(labels, ","); got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	if items[0].Current || !items[4].Current {
		t.Fatalf("expected 70%% to be current")
	}
	for _, c := range items[6].Submenu {
		if c.Current != (c.Action == "color:warm") {
			t.Fatalf("unexpected current color row %+v", c)
		}
	}
	for _, m := range items[7].Submenu {
		if m.Current != (m.Action == "mode:screen-wide") {
			t.Fatalf("unexpected current mode row %+v", m)
		}
	}
	if items[9].Action != ActionAutostartOff {
		t.Fatalf("expected autostart off action, got %q", items[9].Action)
	}
}

func TestParseDimAction(t *testing.T) {
	tests := []struct {
		in   string
		want dimmer.Action
		ok   bool
	}{
		{"level:0", dimmer.SetLevel{Level: 0}, true},
		{"level:95", dimmer.SetLevel{Level: 95}, true},
		{"color:gray", dimmer.SetColor{Color: dimmer.Gray}, true},
		{"mode:screen-wide", dimmer.SetMode{Mode: dimmer.ModeScreenWide}, true},
		{ActionLock, dimmer.Lock{}, true},
		{ActionUnlock, dimmer.Unlock{}, true},
		{ActionQuit, nil, false},
		{ActionAutostartOn, nil, false},
	}
	for _, tt := range tests {
		got, ok, err := ParseDimAction(tt.in)
		if err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if ok != tt.ok || got != tt.want {
			t.Fatalf("%s: got (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	if _, ok, err := ParseDimAction("level:120"); !ok || err == nil {
		t.Fatalf("expected error for out-of-range level")
	}
}

func TestStatusMessage(t *testing.T) {
	if got := StatusMessage(ipc.StatusData{}); got != "Dimming off" {
		t.Fatalf("unexpected inactive message %q", got)
	}
	got := StatusMessage(ipc.StatusData{Active: true, Level: 60, Color: "black", Mode: "exclude-window", Locked: true})
	if got != "Dimmed 60% · black · exclude-window · locked" {
		t.Fatalf("unexpected message %q", got)
	}
}
