package pairing

import (
	"context"
	"errors"
	"sync"

	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/platform"
)

var errQuery = errors.New("display server unavailable")

// fakeWindow is an in-memory window. Fields ending in Err make the matching
// accessor fail.
type fakeWindow struct {
	id      platform.WindowID
	frame   geometry.WindowFrame
	monitor geometry.MonitorBounds
	visible bool
	focused bool

	positionErr error
	outerErr    error
	innerErr    error
	scaleErr    error
	monitorErr  error

	// calls records mutating operations in order, e.g. "show", "hide".
	calls *[]string
	name  string
}

func (w *fakeWindow) record(op string) {
	if w.calls != nil {
		*w.calls = append(*w.calls, w.name+"."+op)
	}
}

func (w *fakeWindow) ID() platform.WindowID { return w.id }

func (w *fakeWindow) OuterPosition() (geometry.Point, error) {
	return w.frame.OuterPosition, w.positionErr
}

func (w *fakeWindow) OuterSize() (geometry.Size, error) {
	return w.frame.OuterSize, w.outerErr
}

func (w *fakeWindow) InnerSize() (geometry.Size, error) {
	return w.frame.InnerSize, w.innerErr
}

func (w *fakeWindow) ScaleFactor() (float64, error) {
	return w.frame.ScaleFactor, w.scaleErr
}

func (w *fakeWindow) CurrentMonitor() (geometry.MonitorBounds, error) {
	return w.monitor, w.monitorErr
}

func (w *fakeWindow) Show() error {
	w.record("show")
	w.visible = true
	return nil
}

func (w *fakeWindow) Hide() error {
	w.record("hide")
	w.visible = false
	return nil
}

func (w *fakeWindow) SetPosition(p geometry.Point) error {
	w.record("move")
	w.frame.OuterPosition = p
	return nil
}

func (w *fakeWindow) SetFocus() error {
	w.record("focus")
	w.focused = true
	return nil
}

type fakeRegistry struct {
	mu      sync.Mutex
	windows map[platform.Role]*fakeWindow
}

func (r *fakeRegistry) Window(role platform.Role) (platform.Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[role]
	if !ok {
		return nil, false
	}
	return w, true
}

func (r *fakeRegistry) put(role platform.Role, w *fakeWindow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows[role] = w
}

func (r *fakeRegistry) remove(role platform.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, role)
}

type fakeMenu struct {
	action ContextAction
	err    error
	calls  int
}

func (m *fakeMenu) ChooseContextAction(ctx context.Context) (ContextAction, error) {
	m.calls++
	return m.action, m.err
}

func testMonitor() geometry.MonitorBounds {
	return geometry.MonitorBounds{Size: geometry.Size{Width: 1920, Height: 1080}}
}

// fixture returns the canonical main window (decorated, 8px chrome) and an
// undecorated hidden bubble.
func fixture() (*fakeRegistry, *fakeWindow, *fakeWindow, *[]string) {
	calls := &[]string{}
	main := &fakeWindow{
		id:   1,
		name: "main",
		frame: geometry.WindowFrame{
			OuterPosition: geometry.Point{X: 100, Y: 100},
			OuterSize:     geometry.Size{Width: 376, Height: 544},
			InnerSize:     geometry.Size{Width: 360, Height: 528},
			ScaleFactor:   1,
		},
		monitor: testMonitor(),
		visible: true,
		calls:   calls,
	}
	bubble := &fakeWindow{
		id:      2,
		name:    "bubble",
		frame:   geometry.DefaultNominal().BubbleFrameAt(geometry.Point{}, 1),
		monitor: testMonitor(),
		calls:   calls,
	}
	reg := &fakeRegistry{windows: map[platform.Role]*fakeWindow{
		platform.RoleMain:   main,
		platform.RoleBubble: bubble,
	}}
	return reg, main, bubble, calls
}
