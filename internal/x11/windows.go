package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// OuterGeometry returns the window's frame rectangle in root coordinates,
// including window-manager decorations.
func (c *Connection) OuterGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	win := xwindow.New(c.XUtil, windowID)
	rect, err := win.DecorGeometry()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("decor geometry of 0x%x: %w", windowID, err)
	}
	return rect.X(), rect.Y(), rect.Width(), rect.Height(), nil
}

// InnerSize returns the size of the client area, without decorations.
func (c *Connection) InnerSize(windowID xproto.Window) (width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("geometry of 0x%x: %w", windowID, err)
	}
	return int(geom.Width), int(geom.Height), nil
}

// The two ways a frame gets moved. wmMove asks the window manager, which
// accounts for its own decorations; configureMove sets the window position
// directly and is used when no EWMH window manager answers.
var (
	wmMove = func(win *xwindow.Window, x, y int) error {
		return win.WMMove(x, y)
	}
	configureMove = func(win *xwindow.Window, x, y int) error {
		return xproto.ConfigureWindowChecked(win.X.Conn(), win.Id,
			xproto.ConfigWindowX|xproto.ConfigWindowY,
			[]uint32{uint32(int32(x)), uint32(int32(y))}).Check()
	}
)

// MoveWindow places the window's frame at x, y.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := wmMove(win, x, y); err == nil {
		return nil
	}
	if err := configureMove(win, x, y); err != nil {
		return fmt.Errorf("move 0x%x: %w", windowID, err)
	}
	return nil
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// The client message is built by hand; the xgbutil ewmh helper panics on
// this library version (uint vs int type assertion).
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 1 // application
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
