package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Area returns width*height, or 0 for degenerate rectangles.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Intersect returns the overlap of r and o. ok is false when they do not overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}, false
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}, true
}

// Origin is the vertical origin of a coordinate space.
type Origin int

const (
	// OriginTopLeft places y=0 at the top edge, growing downwards (X11).
	OriginTopLeft Origin = iota
	// OriginBottomLeft places y=0 at the bottom edge, growing upwards.
	OriginBottomLeft
)

func (o Origin) String() string {
	switch o {
	case OriginTopLeft:
		return "top-left"
	case OriginBottomLeft:
		return "bottom-left"
	default:
		return "unknown"
	}
}

// Display describes a physical display.
type Display struct {
	// ID is stable for the lifetime of the connection (the output name on X11).
	ID      string
	Name    string
	Bounds  Rect
	Primary bool
}

// Window is one entry of an on-screen window snapshot.
type Window struct {
	ID    WindowID
	PID   int
	Layer int
	// Opacity is in [0,1].
	Opacity float64
	Bounds  Rect
	AppID   string
	Title   string
}

// Backend abstracts the window-system queries the dimmer depends on.
type Backend interface {
	// Displays returns the connected displays.
	Displays() ([]Display, error)
	// Windows returns on-screen, non-desktop windows ordered front to back.
	Windows() ([]Window, error)
	// FrontmostPID returns the process owning the focused window.
	// ok is false when nothing is focused or the owner is unknown.
	FrontmostPID() (pid int, ok bool, err error)
	// Origin reports the vertical origin of global coordinates.
	Origin() Origin
}
