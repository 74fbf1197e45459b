//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/curtain/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend serves displays, windows and focus from an X11 connection.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay connects to display ("" uses $DISPLAY).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

func (b *LinuxBackend) Connection() *x11.Connection { return b.conn }
func (b *LinuxBackend) XUtil() *xgbutil.XUtil       { return b.conn.XUtil }
func (b *LinuxBackend) RootWindow() xproto.Window   { return b.conn.Root }

// EventLoop dispatches X events until QuitEventLoop is called.
func (b *LinuxBackend) EventLoop()     { b.conn.EventLoop() }
func (b *LinuxBackend) QuitEventLoop() { b.conn.Quit() }
func (b *LinuxBackend) Disconnect()    { b.conn.Close() }

// Origin reports X11's top-left coordinate origin.
func (b *LinuxBackend) Origin() Origin {
	return OriginTopLeft
}

// Displays returns the active RandR monitors, primary first. The output name
// is the stable display key.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, len(monitors))
	for i, m := range monitors {
		displays[i] = Display{
			ID:      m.Name,
			Name:    m.Name,
			Bounds:  Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Primary: m.Primary,
		}
	}
	sort.SliceStable(displays, func(i, j int) bool {
		return displays[i].Primary && !displays[j].Primary
	})
	return displays, nil
}

// Windows returns the on-screen window snapshot, front to back.
func (b *LinuxBackend) Windows() ([]Window, error) {
	clients, err := b.conn.OnScreenWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, len(clients))
	for i, cw := range clients {
		windows[i] = Window{
			ID:      WindowID(cw.ID),
			PID:     cw.PID,
			Layer:   cw.Layer,
			Opacity: cw.Opacity,
			Bounds:  Rect{X: cw.X, Y: cw.Y, Width: cw.Width, Height: cw.Height},
			AppID:   cw.Class,
			Title:   cw.Title,
		}
	}
	return windows, nil
}

// FrontmostPID returns the process owning _NET_ACTIVE_WINDOW.
func (b *LinuxBackend) FrontmostPID() (int, bool, error) {
	return b.conn.ActivePID()
}
