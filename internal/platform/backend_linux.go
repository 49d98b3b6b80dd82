//go:build linux

package platform

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Window colors
const (
	ColorBackground = 0x1f2933
	ColorText       = 0xf5f7fa
)

// LinuxOptions configures the X11 backend.
type LinuxOptions struct {
	Display       string
	Nominal       geometry.Nominal
	MainTitle     string
	BubbleColor   uint32
	BubbleSticky  bool
	DragThreshold float64
}

// Hooks receives window-system triggers. Nil hooks are ignored. All hooks
// run on the X event loop goroutine.
type Hooks struct {
	MainCloseRequested   func()
	BubbleCloseRequested func()
	BubbleActivated      func()
	BubbleMoved          func()
	BubbleContext        func()
}

// LinuxBackend owns the main and bubble windows on an X11 connection.
type LinuxBackend struct {
	conn *x11.Connection
	opts LinuxOptions

	main   *x11.Surface
	bubble *x11.Surface
	panel  *x11.TextPanel

	mu       sync.Mutex
	hooks    Hooks
	drag     bubbleDrag
	displays []Display
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend connects to the X server and creates both windows
// unmapped. Sizes are the nominal logical sizes at the session scale.
func NewLinuxBackend(opts LinuxOptions) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	b := &LinuxBackend{conn: conn, opts: opts}
	b.drag = bubbleDrag{
		backend: b,
		gesture: Gesture{Threshold: opts.DragThreshold, Hold: DefaultDragHold},
	}
	if err := b.createWindows(); err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

func (b *LinuxBackend) createWindows() error {
	n := b.opts.Nominal
	scale := b.conn.ScaleFactor()
	pos := n.FallbackPosition

	mainSize := n.MainFrame.Scale(scale)
	main, err := b.conn.CreateSurface(x11.SurfaceOptions{
		Title:      b.opts.MainTitle,
		Class:      "bubbledock",
		X:          int(math.Round(pos.X)),
		Y:          int(math.Round(pos.Y)),
		Width:      int(math.Round(mainSize.Width)),
		Height:     int(math.Round(mainSize.Height)),
		Background: ColorBackground,
	})
	if err != nil {
		return err
	}

	bubbleSize := n.BubbleFrame.Scale(scale)
	bubble, err := b.conn.CreateSurface(x11.SurfaceOptions{
		Title:       b.opts.MainTitle + " bubble",
		Class:       "bubbledock-bubble",
		X:           int(math.Round(pos.X)),
		Y:           int(math.Round(pos.Y)),
		Width:       int(math.Round(bubbleSize.Width)),
		Height:      int(math.Round(bubbleSize.Height)),
		Background:  ColorBackground,
		Undecorated: true,
		Utility:     true,
		Sticky:      b.opts.BubbleSticky,
		FixedSize:   true,
	})
	if err != nil {
		main.Destroy()
		return err
	}

	b.main, b.bubble = main, bubble

	if panel, err := x11.NewTextPanel(main, ColorText, ColorBackground); err == nil {
		b.panel = panel
	}

	diameter := n.BubbleFootprint.Scale(scale).Width
	if err := bubble.PaintDisc(diameter, b.opts.BubbleColor, ColorBackground); err != nil {
		return fmt.Errorf("failed to paint bubble: %w", err)
	}
	return nil
}

// SetHooks installs the trigger callbacks and connects the X event handlers.
// It must be called once, before EventLoop.
func (b *LinuxBackend) SetHooks(h Hooks) error {
	b.mu.Lock()
	b.hooks = h
	b.mu.Unlock()

	b.main.OnCloseRequest(func() { call(b.hook(func(h Hooks) func() { return h.MainCloseRequested })) })
	b.bubble.OnCloseRequest(func() { call(b.hook(func(h Hooks) func() { return h.BubbleCloseRequested })) })
	b.bubble.OnConfigure(func() {
		// Moves made by the drag itself are still clamped; the coordinator
		// decides whether the position is acceptable.
		call(b.hook(func(h Hooks) func() { return h.BubbleMoved }))
	})
	b.bubble.OnPointer(&b.drag)
	if err := b.bubble.OnButton("3", func(int, int) {
		call(b.hook(func(h Hooks) func() { return h.BubbleContext }))
	}); err != nil {
		return fmt.Errorf("failed to bind bubble context button: %w", err)
	}
	return nil
}

func (b *LinuxBackend) hook(pick func(Hooks) func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	return pick(b.hooks)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// SetStatusLines replaces the text drawn in the main window.
func (b *LinuxBackend) SetStatusLines(lines []string) {
	if b.panel != nil {
		b.panel.SetLines(lines)
	}
}

// XUtil returns the underlying xgbutil connection for hotkey binding.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	return b.conn.XUtil
}

// RootWindow returns the root window global hotkeys are grabbed on.
func (b *LinuxBackend) RootWindow() xproto.Window {
	return b.conn.Root
}

// EventLoop runs the X11 event loop until Quit.
func (b *LinuxBackend) EventLoop() {
	b.conn.EventLoop()
}

// Quit stops the event loop.
func (b *LinuxBackend) Quit() {
	b.conn.Quit()
}

// Close destroys both windows and disconnects.
func (b *LinuxBackend) Close() {
	if b.panel != nil {
		b.panel.Close()
	}
	if b.bubble != nil {
		b.bubble.Destroy()
	}
	if b.main != nil {
		b.main.Destroy()
	}
	b.conn.Close()
}

// Window resolves a role to its live window.
func (b *LinuxBackend) Window(role Role) (Window, bool) {
	var s *x11.Surface
	switch role {
	case RoleMain:
		s = b.main
	case RoleBubble:
		s = b.bubble
	}
	if s == nil || !s.Alive() {
		return nil, false
	}
	return &x11Window{backend: b, surface: s}, true
}

// Displays reads all active displays with their work areas and refreshes
// the list CurrentMonitor uses.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	area, haveArea := b.conn.WorkArea()

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		d := displayFromMonitor(m)
		if haveArea {
			d.Usable = rectFromMonitor(x11.UsableArea(m, area))
		}
		displays = append(displays, d)
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	b.mu.Lock()
	b.displays = displays
	b.mu.Unlock()
	return displays, nil
}

// knownDisplays returns the last list read by Displays, reading it once if
// there is none yet. Bubble moves use it so a ConfigureNotify costs no RandR
// round trips; the reconciler keeps it current.
func (b *LinuxBackend) knownDisplays() ([]Display, error) {
	b.mu.Lock()
	displays := b.displays
	b.mu.Unlock()
	if len(displays) > 0 {
		return displays, nil
	}
	return b.Displays()
}

func displayFromMonitor(m x11.Monitor) Display {
	bounds := rectFromMonitor(m)
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: bounds,
		Usable: bounds,
	}
}

func rectFromMonitor(m x11.Monitor) Rect {
	return Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// x11Window adapts a surface to the Window interface.
type x11Window struct {
	backend *LinuxBackend
	surface *x11.Surface
}

func (w *x11Window) ID() WindowID {
	return WindowID(w.surface.ID())
}

func (w *x11Window) outer() (Rect, error) {
	if !w.surface.Alive() {
		return Rect{}, ErrWindowMissing
	}
	x, y, width, height, err := w.surface.OuterGeometry()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: width, Height: height}, nil
}

func (w *x11Window) OuterPosition() (geometry.Point, error) {
	r, err := w.outer()
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: float64(r.X), Y: float64(r.Y)}, nil
}

func (w *x11Window) OuterSize() (geometry.Size, error) {
	r, err := w.outer()
	if err != nil {
		return geometry.Size{}, err
	}
	return geometry.Size{Width: float64(r.Width), Height: float64(r.Height)}, nil
}

func (w *x11Window) InnerSize() (geometry.Size, error) {
	if !w.surface.Alive() {
		return geometry.Size{}, ErrWindowMissing
	}
	width, height, err := w.surface.InnerSize()
	if err != nil {
		return geometry.Size{}, err
	}
	return geometry.Size{Width: float64(width), Height: float64(height)}, nil
}

func (w *x11Window) ScaleFactor() (float64, error) {
	if !w.surface.Alive() {
		return 0, ErrWindowMissing
	}
	return w.backend.conn.ScaleFactor(), nil
}

// CurrentMonitor returns the work area of the display the window overlaps
// most.
func (w *x11Window) CurrentMonitor() (geometry.MonitorBounds, error) {
	r, err := w.outer()
	if err != nil {
		return geometry.MonitorBounds{}, err
	}
	displays, err := w.backend.knownDisplays()
	if err != nil {
		return geometry.MonitorBounds{}, err
	}
	d, ok := MonitorFor(displays, r)
	if !ok {
		return geometry.MonitorBounds{}, fmt.Errorf("no displays")
	}
	return d.WorkArea(), nil
}

func (w *x11Window) Show() error {
	if !w.surface.Alive() {
		return ErrWindowMissing
	}
	w.surface.Map()
	return nil
}

func (w *x11Window) Hide() error {
	if !w.surface.Alive() {
		return ErrWindowMissing
	}
	w.surface.Unmap()
	return nil
}

func (w *x11Window) SetPosition(p geometry.Point) error {
	if !w.surface.Alive() {
		return ErrWindowMissing
	}
	return w.surface.Move(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func (w *x11Window) SetFocus() error {
	if !w.surface.Alive() {
		return ErrWindowMissing
	}
	return w.surface.Focus()
}

// bubbleDrag moves the bubble with the pointer once a press turns into a
// drag, and reports a click otherwise.
type bubbleDrag struct {
	backend *LinuxBackend
	gesture Gesture

	originX int
	originY int
}

func (d *bubbleDrag) Press(rootX, rootY int) {
	d.gesture.Press(rootX, rootY, time.Now())
	if x, y, _, _, err := d.backend.bubble.OuterGeometry(); err == nil {
		d.originX, d.originY = x, y
	}
}

func (d *bubbleDrag) Motion(rootX, rootY int) {
	dx, dy, dragging := d.gesture.Motion(rootX, rootY, time.Now())
	if !dragging {
		return
	}
	_ = d.backend.bubble.Move(d.originX+dx, d.originY+dy)
}

func (d *bubbleDrag) Release(rootX, rootY int) {
	if d.gesture.Release(rootX, rootY, time.Now()) {
		call(d.backend.hook(func(h Hooks) func() { return h.BubbleActivated }))
	}
}
