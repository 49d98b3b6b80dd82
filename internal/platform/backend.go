package platform

import (
	"errors"

	"github.com/1broseidon/bubbledock/internal/geometry"
)

// ErrWindowMissing is returned by window operations whose handle has been
// destroyed or was never created.
var ErrWindowMissing = errors.New("window missing")

// Role names one of the two windows managed by bubbledock.
type Role string

const (
	RoleMain   Role = "main"
	RoleBubble Role = "bubble"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window is one managed top-level window. Accessors report physical pixels
// and query the display server on every call.
type Window interface {
	ID() WindowID

	OuterPosition() (geometry.Point, error)
	OuterSize() (geometry.Size, error)
	InnerSize() (geometry.Size, error)
	ScaleFactor() (float64, error)
	CurrentMonitor() (geometry.MonitorBounds, error)

	Show() error
	Hide() error
	SetPosition(p geometry.Point) error
	SetFocus() error
}

// Registry resolves windows by role.
type Registry interface {
	Window(role Role) (Window, bool)
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Registry
	Displays() ([]Display, error)
}

// MonitorBounds converts a display's full bounds to geometry units.
func (d Display) MonitorBounds() geometry.MonitorBounds {
	return geometry.MonitorBounds{
		Position: geometry.Point{X: float64(d.Bounds.X), Y: float64(d.Bounds.Y)},
		Size:     geometry.Size{Width: float64(d.Bounds.Width), Height: float64(d.Bounds.Height)},
	}
}

// WorkArea converts a display's usable area (bounds minus panels and docks)
// to geometry units. Displays without a usable area fall back to bounds.
func (d Display) WorkArea() geometry.MonitorBounds {
	if d.Usable.Width <= 0 || d.Usable.Height <= 0 {
		return d.MonitorBounds()
	}
	return geometry.MonitorBounds{
		Position: geometry.Point{X: float64(d.Usable.X), Y: float64(d.Usable.Y)},
		Size:     geometry.Size{Width: float64(d.Usable.Width), Height: float64(d.Usable.Height)},
	}
}

// MonitorFor picks the display a window occupies: the one with the largest
// overlap with r, or the display nearest r's center when nothing overlaps.
// ok is false only when displays is empty.
func MonitorFor(displays []Display, r Rect) (Display, bool) {
	if len(displays) == 0 {
		return Display{}, false
	}

	best := -1
	bestArea := 0
	for i, d := range displays {
		if area := overlapArea(d.Bounds, r); area > bestArea {
			best = i
			bestArea = area
		}
	}
	if best >= 0 {
		return displays[best], true
	}

	cx, cy := r.X+r.Width/2, r.Y+r.Height/2
	best = 0
	bestDist := -1
	for i, d := range displays {
		dx := distanceToSpan(cx, d.Bounds.X, d.Bounds.X+d.Bounds.Width)
		dy := distanceToSpan(cy, d.Bounds.Y, d.Bounds.Y+d.Bounds.Height)
		if dist := dx*dx + dy*dy; bestDist < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return displays[best], true
}

func overlapArea(a, b Rect) int {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}

func distanceToSpan(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo - v
	case v >= hi:
		return v - hi + 1
	default:
		return 0
	}
}
