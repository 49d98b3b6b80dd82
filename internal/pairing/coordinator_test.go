package pairing

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/platform"
)

func newCoordinator(reg platform.Registry, menu ContextMenu) (*Coordinator, *int) {
	quits := 0
	c := New(Options{
		Registry: reg,
		Nominal:  geometry.DefaultNominal(),
		Menu:     menu,
		Quit:     func() { quits++ },
	})
	return c, &quits
}

func TestStart_ShowsMainHidesBubble(t *testing.T) {
	reg, main, bubble, _ := fixture()
	main.visible = false
	bubble.visible = true

	c, _ := newCoordinator(reg, nil)
	c.Start()

	if !main.visible || bubble.visible {
		t.Fatalf("after Start main.visible=%v bubble.visible=%v", main.visible, bubble.visible)
	}
	if c.State() != MainActive {
		t.Fatalf("initial state = %v, want MainActive", c.State())
	}
}

func TestDismiss_DocksBubbleAtFixture(t *testing.T) {
	reg, main, bubble, calls := fixture()
	c, _ := newCoordinator(reg, nil)

	if got := c.Handle(Event{Kind: EventMainCloseRequested}); got != BubbleActive {
		t.Fatalf("state = %v, want BubbleActive", got)
	}

	want := geometry.Point{X: 459, Y: 342}
	if bubble.frame.OuterPosition != want {
		t.Fatalf("bubble position = %+v, want %+v", bubble.frame.OuterPosition, want)
	}
	if main.visible || !bubble.visible {
		t.Fatalf("main.visible=%v bubble.visible=%v", main.visible, bubble.visible)
	}

	// The bubble is placed and shown before the main window is hidden.
	wantCalls := []string{"bubble.move", "bubble.show", "main.hide"}
	if !reflect.DeepEqual(*calls, wantCalls) {
		t.Fatalf("calls = %v, want %v", *calls, wantCalls)
	}
}

func TestActivate_RestoresMainNextToBubble(t *testing.T) {
	reg, main, bubble, calls := fixture()
	c, _ := newCoordinator(reg, nil)
	c.Handle(Event{Kind: EventMainCloseRequested})
	*calls = nil

	// User drags the bubble elsewhere before clicking it.
	bubble.frame.OuterPosition = geometry.Point{X: 900, Y: 300}

	if got := c.Handle(Event{Kind: EventBubbleActivated}); got != MainActive {
		t.Fatalf("state = %v, want MainActive", got)
	}

	// Footprint left = 909, center y = 300+9+21 = 330.
	want := geometry.Point{X: 909 - 360 - 8, Y: 330 - 264 - 8}
	if main.frame.OuterPosition != want {
		t.Fatalf("main position = %+v, want %+v", main.frame.OuterPosition, want)
	}
	if !main.visible || !main.focused || bubble.visible {
		t.Fatalf("main.visible=%v main.focused=%v bubble.visible=%v", main.visible, main.focused, bubble.visible)
	}
	wantCalls := []string{"main.move", "main.show", "main.focus", "bubble.hide"}
	if !reflect.DeepEqual(*calls, wantCalls) {
		t.Fatalf("calls = %v, want %v", *calls, wantCalls)
	}
}

func TestDockThenRestore_ReturnsToOriginalPosition(t *testing.T) {
	reg, main, _, _ := fixture()
	c, _ := newCoordinator(reg, nil)
	orig := main.frame.OuterPosition

	c.Handle(Event{Kind: EventMainCloseRequested})
	c.Handle(Event{Kind: EventBubbleActivated})

	got := main.frame.OuterPosition
	if math.Abs(got.X-orig.X) > 1 || math.Abs(got.Y-orig.Y) > 1 {
		t.Fatalf("round trip moved main from %+v to %+v", orig, got)
	}
}

func TestRestore_HiddenMainWithoutChromeUsesChromeSeenAtDock(t *testing.T) {
	reg, main, _, _ := fixture()
	c, _ := newCoordinator(reg, nil)
	orig := main.frame.OuterPosition

	c.Handle(Event{Kind: EventMainCloseRequested})

	// A reparenting window manager drops the frame when main is unmapped,
	// so the hidden window reports its client size as the outer size.
	main.frame.OuterSize = main.frame.InnerSize
	c.Handle(Event{Kind: EventBubbleActivated})

	got := main.frame.OuterPosition
	if math.Abs(got.X-orig.X) > 1 || math.Abs(got.Y-orig.Y) > 1 {
		t.Fatalf("restored main to %+v, want %+v", got, orig)
	}
}

func TestRestore_UndecoratedMainNeedsNoChrome(t *testing.T) {
	reg, main, _, _ := fixture()
	main.frame.OuterSize = main.frame.InnerSize
	c, _ := newCoordinator(reg, nil)
	orig := main.frame.OuterPosition

	c.Handle(Event{Kind: EventMainCloseRequested})
	c.Handle(Event{Kind: EventBubbleActivated})

	if got := main.frame.OuterPosition; got != orig {
		t.Fatalf("restored main to %+v, want %+v", got, orig)
	}
}

func TestToggle_AlternatesStates(t *testing.T) {
	reg, _, _, _ := fixture()
	c, _ := newCoordinator(reg, nil)

	want := []VisibilityState{BubbleActive, MainActive, BubbleActive}
	for i, w := range want {
		if got := c.Handle(Event{Kind: EventToggle}); got != w {
			t.Fatalf("toggle %d: state = %v, want %v", i, got, w)
		}
	}
}

func TestIgnoredEvents(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Coordinator)
		event EventKind
		want  VisibilityState
	}{
		{"activate while main active", func(*Coordinator) {}, EventBubbleActivated, MainActive},
		{"move while main active", func(*Coordinator) {}, EventBubbleMoved, MainActive},
		{"main close while bubble active", func(c *Coordinator) {
			c.Handle(Event{Kind: EventMainCloseRequested})
		}, EventMainCloseRequested, BubbleActive},
		{"bubble close while main active", func(*Coordinator) {}, EventBubbleCloseRequested, MainActive},
		{"bubble close while bubble active", func(c *Coordinator) {
			c.Handle(Event{Kind: EventMainCloseRequested})
		}, EventBubbleCloseRequested, BubbleActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, main, bubble, _ := fixture()
			c, _ := newCoordinator(reg, nil)
			tt.setup(c)
			mainVisible, bubbleVisible := main.visible, bubble.visible

			if got := c.Handle(Event{Kind: tt.event}); got != tt.want {
				t.Fatalf("state = %v, want %v", got, tt.want)
			}
			if main.visible != mainVisible || bubble.visible != bubbleVisible {
				t.Fatalf("visibility changed by ignored event")
			}
		})
	}
}

func TestBubbleMoved_ClampsOffscreenBubble(t *testing.T) {
	reg, _, bubble, _ := fixture()
	c, _ := newCoordinator(reg, nil)
	c.Handle(Event{Kind: EventMainCloseRequested})

	bubble.frame.OuterPosition = geometry.Point{X: 1900, Y: -40}
	c.Handle(Event{Kind: EventBubbleMoved})

	want := geometry.Point{X: 1920 - 9 - 42, Y: -9}
	if bubble.frame.OuterPosition != want {
		t.Fatalf("bubble position = %+v, want %+v", bubble.frame.OuterPosition, want)
	}
	if c.Snapshot().Stats.Clamps != 1 {
		t.Fatalf("clamp not counted")
	}
}

func TestBubbleMoved_UsesProposedPosition(t *testing.T) {
	reg, _, bubble, calls := fixture()
	c, _ := newCoordinator(reg, nil)
	c.Handle(Event{Kind: EventMainCloseRequested})
	*calls = nil

	inside := geometry.Point{X: 500, Y: 500}
	c.Handle(Event{Kind: EventBubbleMoved, Position: &inside})
	if len(*calls) != 0 {
		t.Fatalf("valid proposed position triggered %v", *calls)
	}

	outside := geometry.Point{X: -300, Y: 500}
	c.Handle(Event{Kind: EventBubbleMoved, Position: &outside})
	if want := (geometry.Point{X: -9, Y: 500}); bubble.frame.OuterPosition != want {
		t.Fatalf("bubble position = %+v, want %+v", bubble.frame.OuterPosition, want)
	}
}

func TestBubbleMoved_MonitorUnavailableIsNoOp(t *testing.T) {
	reg, _, bubble, _ := fixture()
	c, _ := newCoordinator(reg, nil)
	c.Handle(Event{Kind: EventMainCloseRequested})

	bubble.monitorErr = errQuery
	bubble.frame.OuterPosition = geometry.Point{X: -500, Y: -500}
	c.Handle(Event{Kind: EventBubbleMoved})
	if bubble.frame.OuterPosition != (geometry.Point{X: -500, Y: -500}) {
		t.Fatalf("bubble moved without monitor bounds")
	}
}

func TestQuit_FromAnyState(t *testing.T) {
	for _, dock := range []bool{false, true} {
		reg, _, _, _ := fixture()
		c, quits := newCoordinator(reg, nil)
		if dock {
			c.Handle(Event{Kind: EventMainCloseRequested})
		}

		if got := c.Handle(Event{Kind: EventQuitRequested}); got != Terminated {
			t.Fatalf("state = %v, want Terminated", got)
		}
		c.Handle(Event{Kind: EventQuitRequested})
		if *quits != 1 {
			t.Fatalf("quit called %d times, want 1", *quits)
		}
		select {
		case <-c.Done():
		default:
			t.Fatalf("Done not closed after quit")
		}

		// Terminated is final.
		if got := c.Handle(Event{Kind: EventToggle}); got != Terminated {
			t.Fatalf("event after quit changed state to %v", got)
		}
		if c.Post(Event{Kind: EventToggle}) {
			t.Fatalf("Post accepted an event after quit")
		}
	}
}

func TestContextAction(t *testing.T) {
	tests := []struct {
		name      string
		menu      *fakeMenu
		want      VisibilityState
		wantQuits int
	}{
		{"show", &fakeMenu{action: ActionShow}, MainActive, 0},
		{"quit", &fakeMenu{action: ActionQuit}, Terminated, 1},
		{"dismissed", &fakeMenu{action: ActionNone}, BubbleActive, 0},
		{"menu error", &fakeMenu{err: errors.New("rofi missing")}, BubbleActive, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, _, _, _ := fixture()
			c, quits := newCoordinator(reg, tt.menu)
			c.Handle(Event{Kind: EventMainCloseRequested})

			if got := c.Handle(Event{Kind: EventBubbleContextAction}); got != tt.want {
				t.Fatalf("state = %v, want %v", got, tt.want)
			}
			if *quits != tt.wantQuits {
				t.Fatalf("quits = %d, want %d", *quits, tt.wantQuits)
			}
			if tt.menu.calls != 1 {
				t.Fatalf("menu shown %d times", tt.menu.calls)
			}
		})
	}
}

func TestContextAction_IgnoredWhileMainActive(t *testing.T) {
	reg, _, _, _ := fixture()
	menu := &fakeMenu{action: ActionQuit}
	c, quits := newCoordinator(reg, menu)

	if got := c.Handle(Event{Kind: EventBubbleContextAction}); got != MainActive {
		t.Fatalf("state = %v, want MainActive", got)
	}
	if menu.calls != 0 || *quits != 0 {
		t.Fatalf("menu.calls=%d quits=%d, want 0", menu.calls, *quits)
	}
}

func TestMissingWindows(t *testing.T) {
	t.Run("missing bubble keeps main active", func(t *testing.T) {
		reg, main, bubble, _ := fixture()
		reg.remove(platform.RoleBubble)
		c, _ := newCoordinator(reg, nil)
		c.Start()

		for i := 0; i < 2; i++ {
			if got := c.Handle(Event{Kind: EventMainCloseRequested}); got != MainActive {
				t.Fatalf("close %d: state = %v, want MainActive", i+1, got)
			}
			if !main.visible {
				t.Fatalf("close %d: main hidden although no bubble could be shown", i+1)
			}
		}
		if stats := c.Snapshot().Stats; stats.Docks != 0 || stats.Ignored != 2 {
			t.Fatalf("stats = %+v, want 0 docks and 2 ignored", stats)
		}

		// Once the bubble is back, closing main docks as usual.
		reg.put(platform.RoleBubble, bubble)
		if got := c.Handle(Event{Kind: EventMainCloseRequested}); got != BubbleActive {
			t.Fatalf("state = %v, want BubbleActive", got)
		}
		if main.visible || !bubble.visible {
			t.Fatalf("main.visible=%v bubble.visible=%v", main.visible, bubble.visible)
		}
	})

	t.Run("missing main keeps bubble active", func(t *testing.T) {
		reg, _, bubble, _ := fixture()
		c, _ := newCoordinator(reg, nil)
		c.Handle(Event{Kind: EventMainCloseRequested})
		reg.remove(platform.RoleMain)

		if got := c.Handle(Event{Kind: EventBubbleActivated}); got != BubbleActive {
			t.Fatalf("state = %v, want BubbleActive", got)
		}
		if !bubble.visible {
			t.Fatalf("bubble hidden although main could not be shown")
		}
	})

	t.Run("missing main docks at fallback position", func(t *testing.T) {
		reg, _, bubble, _ := fixture()
		reg.remove(platform.RoleMain)
		c, _ := newCoordinator(reg, nil)

		c.Handle(Event{Kind: EventMainCloseRequested})
		if bubble.frame.OuterPosition != geometry.DefaultNominal().FallbackPosition {
			t.Fatalf("bubble position = %+v, want fallback", bubble.frame.OuterPosition)
		}
		if !bubble.visible {
			t.Fatalf("bubble not shown")
		}
	})

	t.Run("no windows at all", func(t *testing.T) {
		c, _ := newCoordinator(&fakeRegistry{}, nil)
		c.Start()
		c.Handle(Event{Kind: EventMainCloseRequested})
		c.Handle(Event{Kind: EventBubbleMoved})
		if got := c.Handle(Event{Kind: EventBubbleActivated}); got != MainActive {
			t.Fatalf("state = %v, want MainActive", got)
		}
	})

	t.Run("nil registry", func(t *testing.T) {
		c, _ := newCoordinator(nil, nil)
		if got := c.Handle(Event{Kind: EventToggle}); got != MainActive {
			t.Fatalf("state = %v, want MainActive", got)
		}
	})
}

func TestGeometryQueryFailures(t *testing.T) {
	t.Run("inner size failure assumes no chrome", func(t *testing.T) {
		reg, main, bubble, _ := fixture()
		main.innerErr = errQuery
		c, _ := newCoordinator(reg, nil)

		c.Handle(Event{Kind: EventMainCloseRequested})
		// Content = outer: right edge 476, center y 372.
		want := geometry.Point{X: 476 - 9, Y: 372 - 21 - 9}
		if bubble.frame.OuterPosition != want {
			t.Fatalf("bubble position = %+v, want %+v", bubble.frame.OuterPosition, want)
		}
	})

	t.Run("position failure uses fallback position", func(t *testing.T) {
		reg, main, bubble, _ := fixture()
		main.positionErr = errQuery
		c, _ := newCoordinator(reg, nil)

		c.Handle(Event{Kind: EventMainCloseRequested})
		if bubble.frame.OuterPosition != geometry.DefaultNominal().FallbackPosition {
			t.Fatalf("bubble position = %+v, want fallback", bubble.frame.OuterPosition)
		}
		if main.visible {
			t.Fatalf("main still visible after dock")
		}
	})

	t.Run("bubble size failure uses nominal frame", func(t *testing.T) {
		reg, _, bubble, _ := fixture()
		bubble.outerErr = errQuery
		bubble.innerErr = errQuery
		c, _ := newCoordinator(reg, nil)

		c.Handle(Event{Kind: EventMainCloseRequested})
		if want := (geometry.Point{X: 459, Y: 342}); bubble.frame.OuterPosition != want {
			t.Fatalf("bubble position = %+v, want %+v", bubble.frame.OuterPosition, want)
		}
	})

	t.Run("scale failure at hidpi scales nominal frame", func(t *testing.T) {
		reg, main, bubble, _ := fixture()
		main.frame.ScaleFactor = 2
		bubble.scaleErr = errQuery
		bubble.outerErr = errQuery
		bubble.innerErr = errQuery
		c, _ := newCoordinator(reg, nil)

		c.Handle(Event{Kind: EventMainCloseRequested})
		// Nominal bubble at scale 2: 120px frame, 84px footprint, 18px padding.
		want := geometry.Point{X: 468 - 18, Y: 372 - 42 - 18}
		if bubble.frame.OuterPosition != want {
			t.Fatalf("bubble position = %+v, want %+v", bubble.frame.OuterPosition, want)
		}
	})
}

func TestRunDrainsPostedEvents(t *testing.T) {
	reg, _, _, _ := fixture()
	c, _ := newCoordinator(reg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	if !c.Post(Event{Kind: EventToggle, Source: "test"}) {
		t.Fatalf("Post rejected event")
	}
	if !c.Post(Event{Kind: EventQuitRequested, Source: "test"}) {
		t.Fatalf("Post rejected quit")
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after quit")
	}
	if c.State() != Terminated {
		t.Fatalf("state = %v, want Terminated", c.State())
	}
	if c.Snapshot().Stats.Docks != 1 {
		t.Fatalf("toggle was not processed before quit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _ := newCoordinator(&fakeRegistry{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
}

func TestPostDropsWhenQueueFull(t *testing.T) {
	c := New(Options{Registry: &fakeRegistry{}, Nominal: geometry.DefaultNominal(), QueueSize: 1})
	if !c.Post(Event{Kind: EventToggle}) {
		t.Fatalf("first Post rejected")
	}
	if c.Post(Event{Kind: EventToggle}) {
		t.Fatalf("second Post accepted with a full queue")
	}
}

func TestOnTransition(t *testing.T) {
	reg, _, _, _ := fixture()
	var seen []string
	c := New(Options{
		Registry: reg,
		Nominal:  geometry.DefaultNominal(),
		OnTransition: func(from, to VisibilityState) {
			seen = append(seen, from.String()+"->"+to.String())
		},
	})
	c.Handle(Event{Kind: EventToggle})
	c.Handle(Event{Kind: EventBubbleMoved})
	c.Handle(Event{Kind: EventToggle})
	c.Handle(Event{Kind: EventQuitRequested})

	want := []string{"main_active->bubble_active", "bubble_active->main_active", "main_active->terminated"}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("transitions = %v, want %v", seen, want)
	}
}

func TestSnapshot(t *testing.T) {
	reg, _, _, _ := fixture()
	reg.remove(platform.RoleBubble)
	c, _ := newCoordinator(reg, nil)

	snap := c.Snapshot()
	if snap.State != "main_active" {
		t.Fatalf("state = %q", snap.State)
	}
	if !snap.Main.Present || snap.Main.OuterSize.Width != 376 {
		t.Fatalf("main snapshot = %+v", snap.Main)
	}
	if snap.Bubble.Present {
		t.Fatalf("missing bubble reported present")
	}
}

func TestSetNominal(t *testing.T) {
	reg, main, bubble, _ := fixture()
	main.positionErr = errQuery
	c, _ := newCoordinator(reg, nil)

	n := geometry.DefaultNominal()
	n.FallbackPosition = geometry.Point{X: 10, Y: 20}
	c.SetNominal(n)

	c.Handle(Event{Kind: EventMainCloseRequested})
	if bubble.frame.OuterPosition != n.FallbackPosition {
		t.Fatalf("bubble position = %+v, want %+v", bubble.frame.OuterPosition, n.FallbackPosition)
	}
}
