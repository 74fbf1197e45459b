package overlay

import (
	"errors"
	"fmt"

	"github.com/1broseidon/curtain/internal/platform"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ErrNoShape is returned when the X server lacks the SHAPE extension. Without
// it a surface would swallow all pointer input, so none is created.
var ErrNoShape = errors.New("SHAPE extension unavailable")

// X11Factory creates override-redirect overlay windows.
type X11Factory struct {
	xu       *xgbutil.XUtil
	root     xproto.Window
	hasShape bool
}

// NewX11Factory returns a factory creating children of root.
func NewX11Factory(xu *xgbutil.XUtil, root xproto.Window, hasShape bool) *X11Factory {
	return &X11Factory{xu: xu, root: root, hasShape: hasShape}
}

// CreateSurface creates an unmapped surface covering d.
func (f *X11Factory) CreateSurface(d platform.Display) (Surface, error) {
	if !f.hasShape {
		return nil, ErrNoShape
	}

	conn := f.xu.Conn()
	screen := f.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}

	b := d.Bounds
	// Override-redirect keeps the window manager from decorating, cycling
	// or assigning it to a single desktop.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		f.root,
		int16(b.X), int16(b.Y),
		uint16(max(b.Width, 1)), uint16(max(b.Height, 1)),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		// Values follow mask bit order: back_pixel, override_redirect.
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("create overlay window: %w", err)
	}

	s := &x11Surface{xu: f.xu, win: wid}

	_ = icccm.WmClassSet(f.xu, wid, &icccm.WmClass{Instance: "curtain", Class: "Curtain"})
	_ = ewmh.WmNameSet(f.xu, wid, "curtain overlay "+d.ID)

	// Empty input region: clicks fall through to the windows below.
	err = shape.RectanglesChecked(conn, shape.SoSet, shape.SkInput,
		xproto.ClipOrderingUnsorted, wid, 0, 0, nil).Check()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("set input shape: %w", err)
	}
	return s, nil
}

type x11Surface struct {
	xu     *xgbutil.XUtil
	win    xproto.Window
	mapped bool
}

func (s *x11Surface) Paint(p Paint) error {
	conn := s.xu.Conn()
	b := p.Bounds

	err := xproto.ConfigureWindowChecked(
		conn,
		s.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{
			uint32(b.X),
			uint32(b.Y),
			uint32(max(b.Width, 1)),
			uint32(max(b.Height, 1)),
		},
	).Check()
	if err != nil {
		return err
	}

	xproto.ChangeWindowAttributes(conn, s.win, xproto.CwBackPixel, []uint32{p.Color.Pixel()})
	xproto.ClearArea(conn, false, s.win, 0, 0, 0, 0)

	if err := ewmh.WmWindowOpacitySet(s.xu, s.win, p.Alpha); err != nil {
		return fmt.Errorf("set opacity: %w", err)
	}

	bands := subtractRect(b.Width, b.Height, p.Hole)
	rects := make([]xproto.Rectangle, 0, len(bands))
	for _, r := range bands {
		rects = append(rects, xproto.Rectangle{
			X:      int16(r.X),
			Y:      int16(r.Y),
			Width:  uint16(r.Width),
			Height: uint16(r.Height),
		})
	}
	return shape.RectanglesChecked(conn, shape.SoSet, shape.SkBounding,
		xproto.ClipOrderingUnsorted, s.win, 0, 0, rects).Check()
}

func (s *x11Surface) Show() error {
	conn := s.xu.Conn()
	if !s.mapped {
		if err := xproto.MapWindowChecked(conn, s.win).Check(); err != nil {
			return err
		}
		s.mapped = true
	}
	// Raise on every render so newly stacked windows cannot cover the dim.
	xproto.ConfigureWindow(conn, s.win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	return nil
}

func (s *x11Surface) Hide() {
	if !s.mapped {
		return
	}
	xproto.UnmapWindow(s.xu.Conn(), s.win)
	s.mapped = false
}

func (s *x11Surface) Destroy() {
	if s.win == 0 {
		return
	}
	xproto.DestroyWindow(s.xu.Conn(), s.win)
	s.win = 0
	s.mapped = false
}
