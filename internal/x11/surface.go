package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// SurfaceOptions describes a top-level window owned by bubbledock.
type SurfaceOptions struct {
	Title      string
	Class      string
	X, Y       int
	Width      int
	Height     int
	Background uint32

	// Undecorated asks the window manager for no title bar or border.
	Undecorated bool
	// Utility keeps the window above others and out of taskbars and pagers.
	Utility bool
	// Sticky shows the window on every virtual desktop.
	Sticky bool
	// FixedSize forbids interactive resizing.
	FixedSize bool
}

// Surface is a top-level client window. Map state is tracked locally since
// X11 has no cheap query for "mapped by this client".
type Surface struct {
	conn *Connection
	win  *xwindow.Window
	opts SurfaceOptions

	mu        sync.Mutex
	mapped    bool
	destroyed bool
}

// CreateSurface creates, but does not map, a top-level window.
func (c *Connection) CreateSurface(opts SurfaceOptions) (*Surface, error) {
	if opts.Width < 1 || opts.Height < 1 {
		return nil, fmt.Errorf("invalid surface size %dx%d", opts.Width, opts.Height)
	}

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	// Value list order follows the bit positions of the mask (low to high).
	err = win.CreateChecked(c.Root, opts.X, opts.Y, opts.Width, opts.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		opts.Background,
		xproto.EventMaskStructureNotify|xproto.EventMaskExposure)
	if err != nil {
		return nil, fmt.Errorf("failed to create window %q: %w", opts.Title, err)
	}

	s := &Surface{conn: c, win: win, opts: opts}
	if err := s.setProperties(); err != nil {
		win.Destroy()
		return nil, err
	}

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		s.mu.Lock()
		s.destroyed = true
		s.mapped = false
		s.mu.Unlock()
	}).Connect(c.XUtil, win.Id)

	return s, nil
}

func (s *Surface) setProperties() error {
	xu, id := s.conn.XUtil, s.win.Id

	if err := icccm.WmNameSet(xu, id, s.opts.Title); err != nil {
		return fmt.Errorf("failed to set WM_NAME: %w", err)
	}
	if err := ewmh.WmNameSet(xu, id, s.opts.Title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if s.opts.Class != "" {
		class := &icccm.WmClass{Instance: s.opts.Class, Class: s.opts.Class}
		if err := icccm.WmClassSet(xu, id, class); err != nil {
			return fmt.Errorf("failed to set WM_CLASS: %w", err)
		}
	}
	if err := s.setNormalHints(s.opts.X, s.opts.Y); err != nil {
		return err
	}

	if s.opts.Undecorated {
		hints := &motif.Hints{
			Flags:      motif.HintDecorations,
			Decoration: motif.DecorationNone,
		}
		if err := motif.WmHintsSet(xu, id, hints); err != nil {
			return fmt.Errorf("failed to set _MOTIF_WM_HINTS: %w", err)
		}
	}

	if s.opts.Utility {
		if err := ewmh.WmWindowTypeSet(xu, id, []string{"_NET_WM_WINDOW_TYPE_UTILITY"}); err != nil {
			return fmt.Errorf("failed to set window type: %w", err)
		}
		states := []string{"_NET_WM_STATE_ABOVE", "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER"}
		if err := ewmh.WmStateSet(xu, id, states); err != nil {
			return fmt.Errorf("failed to set window state: %w", err)
		}
	}

	if s.opts.Sticky {
		if err := s.conn.SetStickyHint(id); err != nil {
			return fmt.Errorf("failed to set sticky hint: %w", err)
		}
	}
	return nil
}

// setNormalHints publishes a user-specified position so the window manager
// maps the window where it was placed instead of choosing a spot itself.
func (s *Surface) setNormalHints(x, y int) error {
	hints := &icccm.NormalHints{
		Flags: icccm.SizeHintUSPosition | icccm.SizeHintPPosition,
		X:     x,
		Y:     y,
	}
	if s.opts.FixedSize {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(s.opts.Width), uint(s.opts.Width)
		hints.MinHeight, hints.MaxHeight = uint(s.opts.Height), uint(s.opts.Height)
	}
	if err := icccm.WmNormalHintsSet(s.conn.XUtil, s.win.Id, hints); err != nil {
		return fmt.Errorf("failed to set WM_NORMAL_HINTS: %w", err)
	}
	return nil
}

// ID returns the X window id.
func (s *Surface) ID() xproto.Window {
	return s.win.Id
}

// Alive reports whether the window has not been destroyed. DestroyNotify
// keeps this current without a round trip.
func (s *Surface) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.destroyed
}

// Mapped reports whether the window is currently shown.
func (s *Surface) Mapped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapped
}

// Map shows the window.
func (s *Surface) Map() {
	s.mu.Lock()
	s.mapped = true
	s.mu.Unlock()
	s.win.Map()
	if s.opts.Sticky {
		// Some window managers only honour the hint via a client message once mapped.
		_ = s.conn.SetWindowDesktop(s.win.Id, AllDesktops)
	}
}

// Unmap hides the window.
func (s *Surface) Unmap() {
	s.mu.Lock()
	s.mapped = false
	s.mu.Unlock()
	s.win.Unmap()
}

// Move places the outer frame at x, y. Unmapped windows are positioned
// directly; the window manager picks up the new hints when they are mapped.
func (s *Surface) Move(x, y int) error {
	if s.Mapped() {
		return s.conn.MoveWindow(s.win.Id, x, y)
	}
	if err := s.setNormalHints(x, y); err != nil {
		return err
	}
	if err := configureMove(s.win, x, y); err != nil {
		return fmt.Errorf("move 0x%x: %w", s.win.Id, err)
	}
	return nil
}

// OuterGeometry returns the frame rectangle including decorations.
func (s *Surface) OuterGeometry() (x, y, width, height int, err error) {
	return s.conn.OuterGeometry(s.win.Id)
}

// InnerSize returns the client area size.
func (s *Surface) InnerSize() (width, height int, err error) {
	return s.conn.InnerSize(s.win.Id)
}

// Focus raises and activates the window.
func (s *Surface) Focus() error {
	return s.conn.FocusWindow(s.win.Id)
}

// Destroy releases the window.
func (s *Surface) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.mapped = false
	s.mu.Unlock()
	xevent.Detach(s.conn.XUtil, s.win.Id)
	mousebind.Detach(s.conn.XUtil, s.win.Id)
	s.win.Destroy()
}

// OnCloseRequest intercepts WM_DELETE_WINDOW. The window is left alone; fn
// decides what closing means.
func (s *Surface) OnCloseRequest(fn func()) {
	s.win.WMGracefulClose(func(*xwindow.Window) {
		fn()
	})
}

// OnConfigure calls fn after the window was moved or resized. Reparenting
// window managers send a synthetic ConfigureNotify for frame moves.
func (s *Surface) OnConfigure(fn func()) {
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		fn()
	}).Connect(s.conn.XUtil, s.win.Id)
}

// OnButton calls fn when button (e.g. "3") is pressed on the window.
func (s *Surface) OnButton(button string, fn func(rootX, rootY int)) error {
	return mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		fn(int(ev.RootX), int(ev.RootY))
	}).Connect(s.conn.XUtil, s.win.Id, button, false, true)
}

// PointerHandler receives a button-1 press, the pointer motion while held,
// and the release, all in root coordinates.
type PointerHandler interface {
	Press(rootX, rootY int)
	Motion(rootX, rootY int)
	Release(rootX, rootY int)
}

// OnPointer grabs button 1 on the window and forwards the press/motion/release
// sequence to h.
func (s *Surface) OnPointer(h PointerHandler) {
	mousebind.Drag(s.conn.XUtil, s.win.Id, s.win.Id, "1", true,
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
			h.Press(rootX, rootY)
			return true, 0
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			h.Motion(rootX, rootY)
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			h.Release(rootX, rootY)
		})
}
