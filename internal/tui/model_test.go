package tui

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/curtain/internal/ipc"
)

// fakeDaemon records calls and returns a fixed status.
type fakeDaemon struct {
	calls  []string
	status ipc.StatusData
	err    error
}

func (f *fakeDaemon) answer(call string) (*ipc.StatusData, error) {
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	return &st, nil
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) { return f.answer("status") }
func (f *fakeDaemon) Toggle() (*ipc.StatusData, error)    { return f.answer("toggle") }
func (f *fakeDaemon) Lock() (*ipc.StatusData, error)      { return f.answer("lock") }
func (f *fakeDaemon) Unlock() (*ipc.StatusData, error)    { return f.answer("unlock") }

func (f *fakeDaemon) SetLevel(level int) (*ipc.StatusData, error) {
	return f.answer("level " + strconv.Itoa(level))
}

func (f *fakeDaemon) Adjust(delta int) (*ipc.StatusData, error) {
	return f.answer("adjust " + strconv.Itoa(delta))
}

func (f *fakeDaemon) SetColor(color string) (*ipc.StatusData, error) {
	return f.answer("color " + color)
}

func (f *fakeDaemon) SetMode(mode string) (*ipc.StatusData, error) {
	return f.answer("mode " + mode)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends k and runs the resulting command, feeding its message back.
func press(t *testing.T, m model, k tea.KeyMsg) model {
	t.Helper()
	next, cmd := m.Update(k)
	m = next.(model)
	if cmd == nil {
		t.Fatalf("key %q produced no command", k.String())
	}
	next, _ = m.Update(cmd())
	return next.(model)
}

func TestKeysDriveDaemon(t *testing.T) {
	d := &fakeDaemon{status: ipc.StatusData{Active: true, Level: 80, Color: "black", Mode: "exclude-window", AdjustStep: 10}}
	m := newModel(d)
	m.status = &ipc.StatusData{Color: "black", Mode: "exclude-window", AdjustStep: 10}

	m = press(t, m, runes(" "))
	m = press(t, m, runes("+"))
	m = press(t, m, runes("-"))
	m = press(t, m, runes("7"))
	m = press(t, m, runes("0"))
	m = press(t, m, runes("c"))
	m = press(t, m, runes("m"))
	m = press(t, m, runes("l"))
	m = press(t, m, runes("u"))
	m = press(t, m, runes("r"))

	want := []string{
		"toggle", "adjust 10", "adjust -10", "level 70", "level 0",
		"color warm", "mode screen-wide", "lock", "unlock", "status",
	}
	if strings.Join(d.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("got calls %v\nwant %v", d.calls, want)
	}
	if m.status == nil || m.status.Level != 80 {
		t.Fatalf("expected status from daemon, got %+v", m.status)
	}
}

func TestModeTogglesBack(t *testing.T) {
	d := &fakeDaemon{}
	m := newModel(d)
	m.status = &ipc.StatusData{Mode: "screen-wide"}

	press(t, m, runes("m"))
	if len(d.calls) != 1 || d.calls[0] != "mode exclude-window" {
		t.Fatalf("unexpected calls %v", d.calls)
	}
}

func TestErrorKeepsLastStatus(t *testing.T) {
	d := &fakeDaemon{err: errors.New("connection refused")}
	m := newModel(d)
	m.status = &ipc.StatusData{Level: 40}

	m = press(t, m, runes(" "))
	if m.err == nil {
		t.Fatalf("expected error to be recorded")
	}
	if m.status == nil || m.status.Level != 40 {
		t.Fatalf("expected last status kept, got %+v", m.status)
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Fatalf("expected error in view")
	}
}

func TestQuit(t *testing.T) {
	m := newModel(&fakeDaemon{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestNextColor(t *testing.T) {
	tests := map[string]string{
		"black":   "warm",
		"gray":    "black",
		"#123456": "black",
		"":        "black",
	}
	for in, want := range tests {
		if got := nextColor(in); got != want {
			t.Fatalf("nextColor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLevelBar(t *testing.T) {
	if got := levelBar(50); strings.Count(got, "█") != barWidth/2 {
		t.Fatalf("expected half-filled bar, got %q", got)
	}
	if got := levelBar(0); !strings.HasSuffix(got, "  0%") {
		t.Fatalf("unexpected empty bar %q", got)
	}
}
