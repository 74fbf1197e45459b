package targeting

import (
	"sort"

	"github.com/1broseidon/curtain/internal/platform"
)

const (
	DefaultMinWidth  = 200
	DefaultMinHeight = 200
)

// Policy holds the selector's size threshold.
type Policy struct {
	MinWidth  int
	MinHeight int
}

// DefaultPolicy returns the 200x200 threshold.
func DefaultPolicy() Policy {
	return Policy{MinWidth: DefaultMinWidth, MinHeight: DefaultMinHeight}
}

// Selection is a chosen window and its global bounds.
type Selection struct {
	ID     platform.WindowID
	Bounds platform.Rect
}

// Candidates returns the windows owned by pid that qualify as content,
// ordered best first: lower layer wins, then larger area. Ties keep
// directory (front to back) order.
func Candidates(windows []platform.Window, pid int, policy Policy) []platform.Window {
	out := make([]platform.Window, 0, 4)
	for _, w := range windows {
		if w.PID != pid {
			continue
		}
		if w.Layer < 0 || w.Opacity <= 0 {
			continue
		}
		if w.Bounds.Width < policy.MinWidth || w.Bounds.Height < policy.MinHeight {
			continue
		}
		out = append(out, w)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Layer != out[j].Layer {
			return out[i].Layer < out[j].Layer
		}
		return out[i].Bounds.Area() > out[j].Bounds.Area()
	})
	return out
}

// SelectBestWindow picks the single window of pid to exclude from dimming.
func SelectBestWindow(windows []platform.Window, pid int, policy Policy) (Selection, bool) {
	candidates := Candidates(windows, pid, policy)
	if len(candidates) == 0 {
		return Selection{}, false
	}
	best := candidates[0]
	return Selection{ID: best.ID, Bounds: best.Bounds}, true
}
