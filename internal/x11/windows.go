package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ClientWindow is a snapshot of one managed top-level window.
type ClientWindow struct {
	ID      xproto.Window
	PID     int
	Layer   int
	Opacity float64
	X       int
	Y       int
	Width   int
	Height  int
	Class   string
	Title   string
}

// StackedClients returns managed windows bottom-to-top. Falls back to
// _NET_CLIENT_LIST (mapping order) when the WM does not publish stacking.
func (c *Connection) StackedClients() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err == nil {
		return clients, nil
	}
	clients, listErr := ewmh.ClientListGet(c.XUtil)
	if listErr != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// OnScreenWindows lists viewable windows on the current desktop, front to
// back, excluding desktop elements and minimized windows.
func (c *Connection) OnScreenWindows() ([]ClientWindow, error) {
	clients, err := c.StackedClients()
	if err != nil {
		return nil, err
	}

	desktops := c.currentDesktopFilter()

	out := make([]ClientWindow, 0, len(clients))
	for i := len(clients) - 1; i >= 0; i-- {
		win := clients[i]

		if !c.isViewable(win) {
			continue
		}
		if !desktops.visible(win) {
			continue
		}

		types, _ := ewmh.WmWindowTypeGet(c.XUtil, win)
		states, _ := ewmh.WmStateGet(c.XUtil, win)
		if hasState(states, "_NET_WM_STATE_HIDDEN") {
			continue
		}
		layer, desktop := ClassifyWindow(types, states)
		if desktop {
			continue
		}

		x, y, w, h, ok := c.frameRect(win)
		if !ok {
			continue
		}

		cw := ClientWindow{
			ID:      win,
			Layer:   layer,
			Opacity: 1.0,
			X:       x,
			Y:       y,
			Width:   w,
			Height:  h,
			Class:   c.windowClass(win),
			Title:   c.windowTitle(win),
		}
		if pid, err := ewmh.WmPidGet(c.XUtil, win); err == nil {
			cw.PID = int(pid)
		}
		if opacity, err := ewmh.WmWindowOpacityGet(c.XUtil, win); err == nil {
			cw.Opacity = opacity
		}
		out = append(out, cw)
	}
	return out, nil
}

// GetActiveWindow returns the window named by _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// ActivePID returns the owning process of the active window.
func (c *Connection) ActivePID() (int, bool, error) {
	win, err := c.GetActiveWindow()
	if err != nil {
		return 0, false, err
	}
	if win == 0 {
		return 0, false, nil
	}
	pid, err := ewmh.WmPidGet(c.XUtil, win)
	if err != nil || pid == 0 {
		// Clients without _NET_WM_PID cannot be matched to a process.
		return 0, false, nil
	}
	return int(pid), true, nil
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

func (c *Connection) isViewable(win xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// frameRect returns the root-relative rectangle of a client including its
// window manager decorations.
func (c *Connection) frameRect(win xproto.Window) (x, y, w, h int, ok bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}

	left, right, top, bottom := c.GetFrameExtents(win)
	return int(translate.DstX) - left,
		int(translate.DstY) - top,
		int(geom.Width) + left + right,
		int(geom.Height) + top + bottom,
		true
}

func (c *Connection) windowClass(win xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

func hasState(states []string, want string) bool {
	for _, s := range states {
		if s == want {
			return true
		}
	}
	return false
}
