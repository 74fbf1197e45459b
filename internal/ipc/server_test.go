package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/curtain/internal/dimmer"
)

type fakeHandler struct {
	mu        sync.Mutex
	applied   []dimmer.Action
	status    StatusData
	reloadErr error
	quit      bool
}

func (f *fakeHandler) Status(context.Context) (StatusData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, nil
}

func (f *fakeHandler) Apply(_ context.Context, a dimmer.Action) (StatusData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, a)
	if l, ok := a.(dimmer.SetLevel); ok {
		f.status.Level = l.Level
		f.status.Active = l.Level > 0
	}
	return f.status, nil
}

func (f *fakeHandler) Displays(context.Context) ([]DisplayInfo, error) {
	return []DisplayInfo{{ID: "eDP-1", Width: 1920, Height: 1080, Primary: true}}, nil
}

func (f *fakeHandler) Reload(context.Context) error { return f.reloadErr }
func (f *fakeHandler) Quit() {
	f.mu.Lock()
	f.quit = true
	f.mu.Unlock()
}

func request(t *testing.T, cmd CommandType, payload any) *Request {
	t.Helper()
	req, err := NewRequest(cmd, payload)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func newTestServer(h Handler) *Server {
	return &Server{handler: h, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestHandleCommand_Actions(t *testing.T) {
	tests := []struct {
		req  *Request
		want dimmer.Action
	}{
		{req: request(t, CommandToggle, nil), want: dimmer.Toggle{}},
		{req: request(t, CommandSetLevel, LevelPayload{Level: 70}), want: dimmer.SetLevel{Level: 70}},
		{req: request(t, CommandAdjust, AdjustPayload{Delta: -5}), want: dimmer.Adjust{Delta: -5}},
		{req: request(t, CommandSetColor, ColorPayload{Color: "sepia"}), want: dimmer.SetColor{Color: dimmer.Sepia}},
		{req: request(t, CommandSetMode, ModePayload{Mode: "screen-wide"}), want: dimmer.SetMode{Mode: dimmer.ModeScreenWide}},
		{req: request(t, CommandLock, nil), want: dimmer.Lock{}},
		{req: request(t, CommandUnlock, nil), want: dimmer.Unlock{}},
	}

	for _, tt := range tests {
		h := &fakeHandler{}
		resp := newTestServer(h).handleCommand(context.Background(), tt.req)
		if resp.Status != "OK" {
			t.Fatalf("%s: status %s (%s)", tt.req.Command, resp.Status, resp.Error)
		}
		if len(h.applied) != 1 || h.applied[0] != tt.want {
			t.Fatalf("%s: applied %v, want %v", tt.req.Command, h.applied, tt.want)
		}
	}
}

func TestHandleCommand_Rejects(t *testing.T) {
	tests := []*Request{
		request(t, CommandSetLevel, LevelPayload{Level: 101}),
		request(t, CommandSetLevel, nil),
		request(t, CommandSetColor, ColorPayload{Color: "chartreuse"}),
		request(t, CommandSetMode, ModePayload{Mode: "blur"}),
		{Command: "NOPE"},
	}

	for _, req := range tests {
		h := &fakeHandler{}
		resp := newTestServer(h).handleCommand(context.Background(), req)
		if resp.Status != "ERROR" {
			t.Fatalf("%s %s: expected error", req.Command, req.Payload)
		}
		if len(h.applied) != 0 {
			t.Fatalf("%s: rejected request reached the dimmer", req.Command)
		}
	}
}

func TestHandleCommand_Reload(t *testing.T) {
	h := &fakeHandler{reloadErr: errors.New("bad yaml")}
	resp := newTestServer(h).handleCommand(context.Background(), &Request{Command: CommandReload})
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "bad yaml") {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestServerClientRoundTrip(t *testing.T) {
	h := &fakeHandler{status: StatusData{Color: "black", Mode: "exclude-window"}}
	socket := filepath.Join(t.TempDir(), "curtain.sock")
	srv := NewServer(socket, h, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Stop()

	c := NewClientAt(socket)
	status, err := c.SetLevel(40)
	if err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if !status.Active || status.Level != 40 {
		t.Fatalf("status = %+v, want active at 40", status)
	}

	displays, err := c.GetDisplays()
	if err != nil {
		t.Fatalf("GetDisplays: %v", err)
	}
	if len(displays.Displays) != 1 || !displays.Displays[0].Primary {
		t.Fatalf("unexpected displays %+v", displays)
	}

	if _, err := c.SetColor("nope"); err == nil || !strings.Contains(err.Error(), "daemon error") {
		t.Fatalf("expected daemon error, got %v", err)
	}

	if err := c.Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
}

func TestStatusJSONOmitsEmptyTarget(t *testing.T) {
	data, err := json.Marshal(StatusData{Level: 10})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "target") {
		t.Fatalf("empty target serialized: %s", data)
	}
}

func TestRequestForAction(t *testing.T) {
	actions := []dimmer.Action{
		dimmer.Toggle{},
		dimmer.Lock{},
		dimmer.Unlock{},
		dimmer.SetLevel{Level: 45},
		dimmer.Adjust{Delta: -10},
		dimmer.SetColor{Color: dimmer.Sepia},
		dimmer.SetColor{Color: dimmer.Color{R: 0x12, G: 0x34, B: 0x56}},
		dimmer.SetMode{Mode: dimmer.ModeScreenWide},
	}
	for _, want := range actions {
		cmd, payload, err := RequestForAction(want)
		if err != nil {
			t.Fatalf("%s: %v", dimmer.Describe(want), err)
		}
		got, err := actionForRequest(request(t, cmd, payload))
		if err != nil {
			t.Fatalf("%s: decode: %v", dimmer.Describe(want), err)
		}
		if got != want {
			t.Errorf("got %s, want %s", dimmer.Describe(got), dimmer.Describe(want))
		}
	}

	if _, _, err := RequestForAction(dimmer.Tick{}); err == nil {
		t.Fatalf("expected internal action to be rejected")
	}
}
