package overlay

import "github.com/1broseidon/curtain/internal/platform"

// ToSurfaceLocal converts r from global coordinates into the top-left based
// local space of a surface covering the given bounds. With a bottom-left
// global origin the vertical axis is flipped.
func ToSurfaceLocal(r, surface platform.Rect, origin platform.Origin) platform.Rect {
	local := platform.Rect{
		X:      r.X - surface.X,
		Width:  r.Width,
		Height: r.Height,
	}
	switch origin {
	case platform.OriginBottomLeft:
		local.Y = surface.Height - (r.Y - surface.Y) - r.Height
	default:
		local.Y = r.Y - surface.Y
	}
	return local
}

// holeFor clips the exclusion to the display and returns it in surface-local
// coordinates. ok is false when nothing of the exclusion lies on the display.
func holeFor(display, exclusion platform.Rect, origin platform.Origin) (platform.Rect, bool) {
	clipped, ok := display.Intersect(exclusion)
	if !ok {
		return platform.Rect{}, false
	}
	return ToSurfaceLocal(clipped, display, origin), true
}

// subtractRect returns the parts of a width x height surface outside hole,
// as at most four non-overlapping bands: above, below, left, right.
func subtractRect(width, height int, hole *platform.Rect) []platform.Rect {
	full := platform.Rect{Width: width, Height: height}
	if full.Empty() {
		return nil
	}
	if hole == nil {
		return []platform.Rect{full}
	}
	h, ok := full.Intersect(*hole)
	if !ok {
		return []platform.Rect{full}
	}

	var out []platform.Rect
	if h.Y > 0 {
		out = append(out, platform.Rect{Width: width, Height: h.Y})
	}
	if bottom := h.Y + h.Height; bottom < height {
		out = append(out, platform.Rect{Y: bottom, Width: width, Height: height - bottom})
	}
	if h.X > 0 {
		out = append(out, platform.Rect{Y: h.Y, Width: h.X, Height: h.Height})
	}
	if right := h.X + h.Width; right < width {
		out = append(out, platform.Rect{X: right, Y: h.Y, Width: width - right, Height: h.Height})
	}
	return out
}
