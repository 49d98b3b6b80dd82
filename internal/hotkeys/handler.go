package hotkeys

import (
	"fmt"
	"log"
	"sync"

	"github.com/1broseidon/bubbledock/internal/pairing"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Poster queues events for the window pair coordinator.
type Poster interface {
	Post(ev pairing.Event) bool
}

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	poster Poster
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler bound to the backend's root window.
func NewHandler(backend any, poster Poster) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("backend does not support global hotkeys")
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		poster: poster,
	}, nil
}

// RegisterToggle binds keySequence to show the main window when docked and
// dock it when shown.
func (h *Handler) RegisterToggle(keySequence string) error {
	return h.registerEvent(keySequence, pairing.EventToggle)
}

// RegisterQuit binds keySequence to terminate the application.
func (h *Handler) RegisterQuit(keySequence string) error {
	return h.registerEvent(keySequence, pairing.EventQuitRequested)
}

func (h *Handler) registerEvent(keySequence string, kind pairing.EventKind) error {
	if keySequence == "" {
		return nil
	}
	err := h.RegisterFunc(keySequence, func() {
		if !h.poster.Post(pairing.Event{Kind: kind, Source: "hotkey"}) {
			log.Printf("Hotkey %s dropped: coordinator queue unavailable", keySequence)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register %s hotkey %q: %w", kind, keySequence, err)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Unregister drops every hotkey grabbed on the root window, so a reload can
// bind new sequences.
func (h *Handler) Unregister() {
	keybind.Detach(h.xu, h.root)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	xevent.IgnoreMods = ignoreMasks(
		uint16(xproto.ModMaskLock), // CapsLock is always ignored.
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

// ignoreMasks returns every combination of the lock modifiers, including no
// modifier, so hotkeys fire regardless of lock state.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
