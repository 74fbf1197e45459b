package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// stickyDesktop is the _NET_WM_DESKTOP value for windows shown on every desktop.
const stickyDesktop = 0xFFFFFFFF

// desktopFilter keeps windows that are visible on the current virtual
// desktop. Without _NET_CURRENT_DESKTOP every window passes.
type desktopFilter struct {
	xu      *xgbutil.XUtil
	current uint
	known   bool
}

func (c *Connection) currentDesktopFilter() desktopFilter {
	current, err := ewmh.CurrentDesktopGet(c.XUtil)
	return desktopFilter{xu: c.XUtil, current: current, known: err == nil}
}

func (f desktopFilter) visible(win xproto.Window) bool {
	if !f.known {
		return true
	}
	desktop, err := ewmh.WmDesktopGet(f.xu, win)
	if err != nil {
		return true
	}
	return desktop == stickyDesktop || desktop == f.current
}
