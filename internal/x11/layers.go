package x11

// Stacking layers assigned to client windows. Lower values sit closer to the
// desktop; only layers >= 0 are considered application content.
const (
	LayerBelow        = -1
	LayerNormal       = 0
	LayerFloating     = 3
	LayerDock         = 20
	LayerNotification = 25
	LayerPopup        = 101
)

// ClassifyWindow maps EWMH window types and states to a stacking layer.
// desktop is true for desktop elements (wallpaper/icon windows), which the
// directory drops entirely.
func ClassifyWindow(types []string, states []string) (layer int, desktop bool) {
	layer = LayerNormal
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DESKTOP":
			return LayerBelow, true
		case "_NET_WM_WINDOW_TYPE_DOCK":
			layer = max(layer, LayerDock)
		case "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			layer = max(layer, LayerNotification)
		case "_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
			"_NET_WM_WINDOW_TYPE_POPUP_MENU",
			"_NET_WM_WINDOW_TYPE_TOOLTIP",
			"_NET_WM_WINDOW_TYPE_COMBO",
			"_NET_WM_WINDOW_TYPE_DND":
			layer = max(layer, LayerPopup)
		case "_NET_WM_WINDOW_TYPE_UTILITY", "_NET_WM_WINDOW_TYPE_TOOLBAR":
			layer = max(layer, LayerFloating)
		}
	}

	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_ABOVE":
			layer = max(layer, LayerFloating)
		case "_NET_WM_STATE_BELOW":
			if layer == LayerNormal {
				layer = LayerBelow
			}
		}
	}
	return layer, false
}
