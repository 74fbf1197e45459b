package hotkeys

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/1broseidon/curtain/internal/config"
	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("global hotkeys require an X11 backend")
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		caps := uint16(xproto.ModMaskLock)
		xevent.IgnoreMods = ignoreMasks(caps, modMaskForKeysym(xu, "Num_Lock"), modMaskForKeysym(xu, "Scroll_Lock"))
	})

	return &Handler{
		xu:   xu,
		root: accessor.RootWindow(),
	}, nil
}

// Bind registers every configured hotkey. Dimmer actions go to post; the
// menu hotkey calls menu. A failed binding does not stop the rest.
func (h *Handler) Bind(bindings []config.HotkeyBinding, step int, post func(dimmer.Action), menu func()) error {
	var errs []error
	for _, b := range bindings {
		callback, err := callbackFor(b.Name, step, post, menu)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := h.RegisterFunc(b.Keys, callback); err != nil {
			errs = append(errs, fmt.Errorf("failed to register %s hotkey %q: %w", b.Name, b.Keys, err))
			continue
		}
		log.Printf("Registered %s hotkey: %s", b.Name, b.Keys)
	}
	return errors.Join(errs...)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func callbackFor(name string, step int, post func(dimmer.Action), menu func()) (func(), error) {
	if name == config.HotkeyMenu {
		return menu, nil
	}
	action, err := dimmer.ActionForHotkey(dimmer.HotkeyAction(name), step)
	if err != nil {
		return nil, err
	}
	return func() { post(action) }, nil
}

// ignoreMasks returns every combination of the lock modifiers, so hotkeys
// fire regardless of CapsLock, NumLock and ScrollLock state.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(unique))
	for mask := range unique {
		out = append(out, mask)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
