package pairing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/platform"
)

const defaultQueueSize = 64

// ContextMenu asks the user what to do after a secondary click on the
// bubble. It may block until the user chooses.
type ContextMenu interface {
	ChooseContextAction(ctx context.Context) (ContextAction, error)
}

// Options configures a Coordinator.
type Options struct {
	Registry platform.Registry
	Nominal  geometry.Nominal
	Menu     ContextMenu
	// Quit is called once, outside the coordinator lock, after a quit event.
	Quit func()
	// OnTransition is called with the lock held after every state change.
	OnTransition func(from, to VisibilityState)
	Logger       *slog.Logger
	QueueSize    int
}

// Coordinator owns the main/bubble visibility state and runs every
// transition to completion before the next event is processed.
type Coordinator struct {
	registry     platform.Registry
	menu         ContextMenu
	quit         func()
	onTransition func(from, to VisibilityState)
	logger       *slog.Logger

	mu      sync.Mutex
	state   VisibilityState
	nominal geometry.Nominal
	stats   Stats

	// mainChrome is the main window's decoration size (outer minus inner)
	// seen at the last dock, while main was still mapped. chromeScale is
	// the scale it was read at; zero means nothing was recorded.
	mainChrome  geometry.Size
	chromeScale float64

	events   chan Event
	done     chan struct{}
	quitOnce sync.Once
}

// Stats counts what the coordinator has done since start.
type Stats struct {
	Docks    int `json:"docks"`
	Restores int `json:"restores"`
	Clamps   int `json:"clamps"`
	Ignored  int `json:"ignored"`
	// LastDock and LastRestore are the most recent target positions.
	LastDock    *geometry.Point `json:"last_dock,omitempty"`
	LastRestore *geometry.Point `json:"last_restore,omitempty"`
}

// New creates a coordinator in the MainActive state.
func New(opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Coordinator{
		registry:     opts.Registry,
		menu:         opts.Menu,
		quit:         opts.Quit,
		onTransition: opts.OnTransition,
		logger:       logger,
		state:        MainActive,
		nominal:      opts.Nominal,
		events:       make(chan Event, size),
		done:         make(chan struct{}),
	}
}

// Start establishes the initial window state: main shown, bubble hidden.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if main, ok := c.window(platform.RoleMain); ok {
		c.try("show main", main.Show())
	}
	if bubble, ok := c.window(platform.RoleBubble); ok {
		c.try("hide bubble", bubble.Hide())
	}
	c.logger.Info("coordinator started", "state", c.state)
}

// State returns the current visibility state.
func (c *Coordinator) State() VisibilityState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Nominal returns the sizes currently assumed for fallbacks.
func (c *Coordinator) Nominal() geometry.Nominal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nominal
}

// SetNominal replaces the nominal sizes, e.g. after a config reload.
func (c *Coordinator) SetNominal(n geometry.Nominal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nominal = n
}

// Done is closed once the coordinator has terminated.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Post enqueues ev for Run. It never blocks; false means the queue is full
// or the coordinator has terminated.
func (c *Coordinator) Post(ev Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	default:
		c.logger.Warn("event queue full, dropping event", "event", ev.Kind, "source", ev.Source)
		return false
	}
}

// Run drains posted events until ctx is cancelled or the coordinator
// terminates.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case ev := <-c.events:
			c.HandleContext(ctx, ev)
		}
	}
}

// Handle processes ev synchronously and returns the resulting state.
func (c *Coordinator) Handle(ev Event) VisibilityState {
	return c.HandleContext(context.Background(), ev)
}

// HandleContext is Handle with a context bounding the context menu.
func (c *Coordinator) HandleContext(ctx context.Context, ev Event) VisibilityState {
	if ev.Kind == EventBubbleContextAction {
		return c.handleContextAction(ctx, ev)
	}

	c.mu.Lock()
	quitting := c.dispatch(ev)
	state := c.state
	c.mu.Unlock()

	if quitting {
		c.terminate()
	}
	return state
}

// dispatch applies one transition. The caller holds c.mu. It reports
// whether the terminator must be invoked.
func (c *Coordinator) dispatch(ev Event) bool {
	if c.state == Terminated {
		return false
	}

	switch {
	case ev.Kind == EventQuitRequested:
		c.setState(Terminated)
		c.logger.Info("quit requested", "source", ev.Source)
		return true

	case ev.Kind == EventBubbleCloseRequested:
		c.logger.Debug("bubble close suppressed", "source", ev.Source)

	case c.state == MainActive && (ev.Kind == EventMainCloseRequested || ev.Kind == EventToggle):
		c.dock()

	case c.state == BubbleActive && (ev.Kind == EventBubbleActivated || ev.Kind == EventToggle):
		c.restore()

	case c.state == BubbleActive && ev.Kind == EventBubbleMoved:
		c.clamp(ev.Position)

	default:
		c.stats.Ignored++
		c.logger.Debug("event ignored", "event", ev.Kind, "state", c.state, "source", ev.Source)
	}
	return false
}

// handleContextAction shows the menu without holding the lock, then feeds
// the choice back through the normal transition path.
func (c *Coordinator) handleContextAction(ctx context.Context, ev Event) VisibilityState {
	state := c.State()
	if state != BubbleActive || c.menu == nil {
		c.mu.Lock()
		c.stats.Ignored++
		c.mu.Unlock()
		c.logger.Debug("event ignored", "event", ev.Kind, "state", state, "source", ev.Source)
		return state
	}

	action, err := c.menu.ChooseContextAction(ctx)
	if err != nil {
		c.logger.Warn("context menu failed", "error", err)
		return c.State()
	}
	c.logger.Debug("context action chosen", "action", action)

	switch action {
	case ActionShow:
		return c.HandleContext(ctx, Event{Kind: EventBubbleActivated, Source: "menu"})
	case ActionQuit:
		return c.HandleContext(ctx, Event{Kind: EventQuitRequested, Source: "menu"})
	default:
		return c.State()
	}
}

func (c *Coordinator) terminate() {
	c.quitOnce.Do(func() {
		close(c.done)
		if c.quit != nil {
			c.quit()
		}
	})
}

func (c *Coordinator) setState(next VisibilityState) {
	prev := c.state
	c.state = next
	if prev != next && c.onTransition != nil {
		c.onTransition(prev, next)
	}
}

// dock hides the main window behind the bubble. Without a bubble there is
// nothing to dock into, so main stays up and the state is unchanged.
func (c *Coordinator) dock() {
	n := c.nominal
	main, mainOK := c.window(platform.RoleMain)
	bubble, bubbleOK := c.window(platform.RoleBubble)
	if !bubbleOK {
		c.stats.Ignored++
		c.logger.Warn("dock skipped: bubble window missing")
		return
	}

	mainFrame, mainRead := c.readFrame(main, mainOK, n.MainFrameAt(n.FallbackPosition, 1))
	bubbleFrame, _ := c.readFrame(bubble, true, n.BubbleFrameAt(n.FallbackPosition, mainFrame.ScaleFactor))

	target := n.FallbackPosition
	if mainRead {
		target = geometry.DockedPosition(mainFrame, bubbleFrame, n.Footprint())
		c.rememberChrome(mainFrame)
	}

	c.try("position bubble", bubble.SetPosition(target))
	c.try("show bubble", bubble.Show())
	if mainOK {
		c.try("hide main", main.Hide())
	}

	c.stats.Docks++
	c.stats.LastDock = &target
	c.logger.Debug("docked", "x", target.X, "y", target.Y, "main_geometry", mainRead)
	c.setState(BubbleActive)
}

// restore brings the main window back next to the bubble. Without a main
// window the bubble stays up and the state is unchanged.
func (c *Coordinator) restore() {
	n := c.nominal
	main, mainOK := c.window(platform.RoleMain)
	bubble, bubbleOK := c.window(platform.RoleBubble)
	if !mainOK {
		c.stats.Ignored++
		c.logger.Warn("restore skipped: main window missing")
		return
	}

	bubbleFrame, bubbleRead := c.readFrame(bubble, bubbleOK, n.BubbleFrameAt(n.FallbackPosition, 1))
	mainFrame, _ := c.readFrame(main, true, n.MainFrameAt(n.FallbackPosition, bubbleFrame.ScaleFactor))
	mainFrame = c.withRememberedChrome(mainFrame)

	target := n.FallbackPosition
	if bubbleRead {
		target = geometry.RestoredPosition(bubbleFrame, n.Footprint(), mainFrame)
	}

	c.try("position main", main.SetPosition(target))
	c.try("show main", main.Show())
	c.try("focus main", main.SetFocus())
	if bubbleOK {
		c.try("hide bubble", bubble.Hide())
	}

	c.stats.Restores++
	c.stats.LastRestore = &target
	c.logger.Debug("restored", "x", target.X, "y", target.Y, "bubble_geometry", bubbleRead)
	c.setState(MainActive)
}

func (c *Coordinator) rememberChrome(f geometry.WindowFrame) {
	chrome := geometry.Size{
		Width:  f.OuterSize.Width - f.InnerSize.Width,
		Height: f.OuterSize.Height - f.InnerSize.Height,
	}
	if chrome.Width <= 0 && chrome.Height <= 0 {
		return
	}
	c.mainChrome = chrome
	c.chromeScale = f.ScaleFactor
	if c.chromeScale <= 0 {
		c.chromeScale = 1
	}
}

// withRememberedChrome puts back the decorations a reparenting window
// manager strips from main while it is unmapped: a hidden main reports its
// client size as its outer size.
func (c *Coordinator) withRememberedChrome(f geometry.WindowFrame) geometry.WindowFrame {
	if c.chromeScale == 0 || f.OuterSize != f.InnerSize {
		return f
	}
	chrome := c.mainChrome
	if f.ScaleFactor > 0 && f.ScaleFactor != c.chromeScale {
		chrome = chrome.Scale(f.ScaleFactor / c.chromeScale)
	}
	f.OuterSize = geometry.Size{
		Width:  f.InnerSize.Width + chrome.Width,
		Height: f.InnerSize.Height + chrome.Height,
	}
	return f
}

// clamp keeps the bubble's footprint on its current monitor.
func (c *Coordinator) clamp(proposed *geometry.Point) {
	n := c.nominal
	bubble, ok := c.window(platform.RoleBubble)
	if !ok {
		return
	}

	frame, read := c.readFrame(bubble, true, n.BubbleFrameAt(n.FallbackPosition, 1))
	if proposed != nil {
		frame.OuterPosition = *proposed
		read = true
	}
	if !read {
		return
	}

	monitor, err := bubble.CurrentMonitor()
	if err != nil {
		c.logger.Debug("monitor unavailable, skipping clamp", "error", err)
		return
	}

	res := geometry.ClampToMonitor(frame, n.Footprint(), monitor, n.ClampEpsilon)
	if !res.Clamped {
		return
	}
	c.stats.Clamps++
	c.try("reposition bubble", bubble.SetPosition(res.Position))
	c.logger.Debug("bubble clamped", "x", res.Position.X, "y", res.Position.Y)
}

func (c *Coordinator) window(role platform.Role) (platform.Window, bool) {
	if c.registry == nil {
		return nil, false
	}
	w, ok := c.registry.Window(role)
	if !ok || w == nil {
		c.logger.Debug("window missing", "role", role)
		return nil, false
	}
	return w, true
}

// readFrame reads a live frame, substituting fallback for each field that
// cannot be read. read reports whether the outer position was obtained.
func (c *Coordinator) readFrame(w platform.Window, ok bool, fallback geometry.WindowFrame) (frame geometry.WindowFrame, read bool) {
	frame = fallback
	if !ok {
		return frame, false
	}

	if scale, err := w.ScaleFactor(); c.try("read scale factor", err) && scale > 0 {
		if scale != fallback.ScaleFactor && fallback.ScaleFactor > 0 {
			ratio := scale / fallback.ScaleFactor
			frame.OuterSize = fallback.OuterSize.Scale(ratio)
			frame.InnerSize = fallback.InnerSize.Scale(ratio)
		}
		frame.ScaleFactor = scale
	}

	if pos, err := w.OuterPosition(); c.try("read outer position", err) {
		frame.OuterPosition = pos
		read = true
	}

	outerRead := false
	if size, err := w.OuterSize(); c.try("read outer size", err) {
		frame.OuterSize = size
		outerRead = true
	}

	if size, err := w.InnerSize(); c.try("read inner size", err) {
		frame.InnerSize = size
	} else if outerRead {
		// Without an inner size, assume no chrome.
		frame.InnerSize = frame.OuterSize
	}

	return frame, read
}

// try logs err and reports whether the call succeeded.
func (c *Coordinator) try(what string, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, platform.ErrWindowMissing) {
		c.logger.Debug(what+": window missing")
	} else {
		c.logger.Warn(what+" failed", "error", err)
	}
	return false
}
