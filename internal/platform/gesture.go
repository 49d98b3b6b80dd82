package platform

import (
	"math"
	"time"
)

// DefaultDragHold is how long a press may be held in place before it counts
// as the start of a drag rather than a click.
const DefaultDragHold = 150 * time.Millisecond

// Gesture tells a click from a drag for a single pointer button. A press
// becomes a drag once the pointer travels further than Threshold pixels or
// the button is held longer than Hold.
type Gesture struct {
	Threshold float64
	Hold      time.Duration

	pressed  bool
	dragging bool
	startX   int
	startY   int
	startAt  time.Time
}

// Press starts tracking at root coordinates x, y.
func (g *Gesture) Press(x, y int, now time.Time) {
	g.pressed = true
	g.dragging = false
	g.startX, g.startY = x, y
	g.startAt = now
}

// Motion reports the offset from the press point and whether the gesture is
// now a drag.
func (g *Gesture) Motion(x, y int, now time.Time) (dx, dy int, dragging bool) {
	if !g.pressed {
		return 0, 0, false
	}
	dx, dy = x-g.startX, y-g.startY
	if !g.dragging {
		moved := math.Hypot(float64(dx), float64(dy)) > g.Threshold
		held := g.Hold > 0 && now.Sub(g.startAt) >= g.Hold
		g.dragging = moved || held
	}
	return dx, dy, g.dragging
}

// Release ends the gesture and reports whether it was a click.
func (g *Gesture) Release(x, y int, now time.Time) (click bool) {
	if !g.pressed {
		return false
	}
	g.Motion(x, y, now)
	click = !g.dragging
	g.pressed = false
	g.dragging = false
	return click
}

// Dragging reports whether the current press has turned into a drag.
func (g *Gesture) Dragging() bool {
	return g.pressed && g.dragging
}
