package targeting

import (
	"testing"

	"github.com/1broseidon/curtain/internal/platform"
)

func win(id platform.WindowID, pid, layer int, opacity float64, w, h int) platform.Window {
	return platform.Window{
		ID:      id,
		PID:     pid,
		Layer:   layer,
		Opacity: opacity,
		Bounds:  platform.Rect{X: 10, Y: 10, Width: w, Height: h},
	}
}

func TestSelectBestWindow_PrefersLargerAreaOnSameLayer(t *testing.T) {
	windows := []platform.Window{
		win(1, 42, 0, 1, 250, 200), // 50000
		win(2, 42, 0, 1, 300, 300), // 90000
	}

	sel, ok := SelectBestWindow(windows, 42, DefaultPolicy())
	if !ok {
		t.Fatalf("expected a selection")
	}
	if sel.ID != 2 {
		t.Fatalf("selected window %d, want 2 (larger area)", sel.ID)
	}
	if sel.Bounds != windows[1].Bounds {
		t.Fatalf("selected bounds %+v, want %+v", sel.Bounds, windows[1].Bounds)
	}
}

func TestSelectBestWindow_LowerLayerBeatsArea(t *testing.T) {
	windows := []platform.Window{
		win(1, 42, 3, 1, 2000, 1500),
		win(2, 42, 0, 1, 300, 300),
	}

	sel, ok := SelectBestWindow(windows, 42, DefaultPolicy())
	if !ok || sel.ID != 2 {
		t.Fatalf("got (%v, %v), want window 2 on the lower layer", sel.ID, ok)
	}
}

func TestSelectBestWindow_TieKeepsDirectoryOrder(t *testing.T) {
	windows := []platform.Window{
		win(7, 42, 0, 1, 400, 400),
		win(3, 42, 0, 1, 400, 400),
	}

	sel, ok := SelectBestWindow(windows, 42, DefaultPolicy())
	if !ok || sel.ID != 7 {
		t.Fatalf("got %v, want frontmost of the tied windows (7)", sel.ID)
	}
}

func TestSelectBestWindow_NoCandidate(t *testing.T) {
	windows := []platform.Window{
		win(1, 7, 0, 1, 800, 600),     // other process
		win(2, 42, -1, 1, 800, 600),   // below desktop layer
		win(3, 42, 0, 0, 800, 600),    // fully transparent
		win(4, 42, 0, 1, 199, 600),    // too narrow
		win(5, 42, 0, 1, 800, 199),    // too short
		win(6, 42, 101, 0.5, 100, 20), // tooltip-sized popup
	}

	if sel, ok := SelectBestWindow(windows, 42, DefaultPolicy()); ok {
		t.Fatalf("expected no selection, got %+v", sel)
	}
	if _, ok := SelectBestWindow(nil, 42, DefaultPolicy()); ok {
		t.Fatalf("expected no selection from an empty directory")
	}
}

func TestCandidates_AllSatisfyFilter(t *testing.T) {
	var windows []platform.Window
	id := platform.WindowID(1)
	for _, pid := range []int{41, 42} {
		for _, layer := range []int{-1, 0, 3, 20} {
			for _, opacity := range []float64{0, 0.4, 1} {
				for _, size := range []int{150, 200, 640} {
					windows = append(windows, win(id, pid, layer, opacity, size, size+10))
					id++
				}
			}
		}
	}

	policy := DefaultPolicy()
	got := Candidates(windows, 42, policy)
	if len(got) == 0 {
		t.Fatalf("expected candidates")
	}
	for _, w := range got {
		if w.PID != 42 || w.Layer < 0 || w.Opacity <= 0 || w.Bounds.Width < policy.MinWidth || w.Bounds.Height < policy.MinHeight {
			t.Fatalf("candidate %+v violates the filter", w)
		}
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.Layer > cur.Layer {
			t.Fatalf("candidates not ordered by layer: %d before %d", prev.Layer, cur.Layer)
		}
		if prev.Layer == cur.Layer && prev.Bounds.Area() < cur.Bounds.Area() {
			t.Fatalf("candidates on layer %d not ordered by area", cur.Layer)
		}
	}
}

func TestSelectBestWindow_CustomThreshold(t *testing.T) {
	windows := []platform.Window{win(1, 42, 0, 1, 120, 120)}

	if _, ok := SelectBestWindow(windows, 42, DefaultPolicy()); ok {
		t.Fatalf("120x120 must be rejected by the default threshold")
	}
	if _, ok := SelectBestWindow(windows, 42, Policy{MinWidth: 100, MinHeight: 100}); !ok {
		t.Fatalf("120x120 must pass a 100x100 threshold")
	}
}
