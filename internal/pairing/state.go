package pairing

import (
	"fmt"

	"github.com/1broseidon/bubbledock/internal/geometry"
)

// VisibilityState records which of the two windows is the active one.
type VisibilityState int

const (
	MainActive VisibilityState = iota
	BubbleActive
	// Terminated is entered after a quit request. No further events are
	// processed.
	Terminated
)

func (s VisibilityState) String() string {
	switch s {
	case MainActive:
		return "main_active"
	case BubbleActive:
		return "bubble_active"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EventKind identifies an inbound trigger.
type EventKind int

const (
	EventMainCloseRequested EventKind = iota + 1
	EventBubbleActivated
	EventBubbleMoved
	EventBubbleContextAction
	EventQuitRequested
	EventBubbleCloseRequested
	EventToggle
)

var eventNames = map[EventKind]string{
	EventMainCloseRequested:   "main_close_requested",
	EventBubbleActivated:      "bubble_activated",
	EventBubbleMoved:          "bubble_moved",
	EventBubbleContextAction:  "bubble_context_action",
	EventQuitRequested:        "quit_requested",
	EventBubbleCloseRequested: "bubble_close_requested",
	EventToggle:               "toggle",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one inbound trigger. Position is only meaningful for
// EventBubbleMoved, where it carries the proposed bubble outer position;
// when nil the live position is read instead.
type Event struct {
	Kind     EventKind
	Position *geometry.Point
	// Source names the origin (x11, ipc, hotkey, menu) for logging.
	Source string
}

// ContextAction is the user's choice from the bubble context menu.
type ContextAction int

const (
	ActionNone ContextAction = iota
	ActionShow
	ActionQuit
)

func (a ContextAction) String() string {
	switch a {
	case ActionShow:
		return "show"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}
