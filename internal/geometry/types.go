package geometry

// Point is a screen-space position in physical pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair. Whether it is physical or logical depends on
// the field holding it.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Scale multiplies both axes by f.
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

// Rect is an axis-aligned rectangle in physical pixels.
type Rect struct {
	Position Point
	Size     Size
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Position.X + r.Size.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Position.Y + r.Size.Height }

// Contains reports whether o lies inside r, allowing o to overhang any edge
// by at most tolerance.
func (r Rect) Contains(o Rect, tolerance float64) bool {
	return o.Position.X >= r.Position.X-tolerance &&
		o.Position.Y >= r.Position.Y-tolerance &&
		o.Right() <= r.Right()+tolerance &&
		o.Bottom() <= r.Bottom()+tolerance
}

// MonitorBounds is the physical rectangle of one display.
type MonitorBounds Rect

// Rect returns the bounds as a plain rectangle.
func (m MonitorBounds) Rect() Rect { return Rect(m) }

// WindowFrame is a snapshot of one window's physical geometry.
//
// OuterPosition and OuterSize include window-manager decorations, InnerSize is
// the client content area. Frames are read fresh for every transform and are
// never cached, since the window manager may change them between reads.
type WindowFrame struct {
	OuterPosition Point
	OuterSize     Size
	InnerSize     Size
	ScaleFactor   float64
}

// ChromeInset returns half the outer/inner difference per axis. Degenerate
// frames (inner larger than outer) yield a negative inset, which propagates.
func (f WindowFrame) ChromeInset() Size {
	return Size{
		Width:  (f.OuterSize.Width - f.InnerSize.Width) / 2,
		Height: (f.OuterSize.Height - f.InnerSize.Height) / 2,
	}
}

// ContentOrigin returns the screen position of the content area's top-left corner.
func (f WindowFrame) ContentOrigin() Point {
	inset := f.ChromeInset()
	return Point{
		X: f.OuterPosition.X + inset.Width,
		Y: f.OuterPosition.Y + inset.Height,
	}
}

// ContentRect returns the content area in screen space.
func (f WindowFrame) ContentRect() Rect {
	return Rect{Position: f.ContentOrigin(), Size: f.InnerSize}
}

// VisualFootprint is the rendered, user-perceived shape inside a window's
// content area, in logical units.
type VisualFootprint struct {
	Size Size
}

// Physical returns the footprint size at the given scale factor.
func (v VisualFootprint) Physical(scale float64) Size {
	return v.Size.Scale(scale)
}

// InnerPadding is the gap between the content area and the footprint on each
// side. A footprint that does not fit the content area gets zero padding.
func (v VisualFootprint) InnerPadding(f WindowFrame) Size {
	phys := v.Physical(f.ScaleFactor)
	return Size{
		Width:  max(0, (f.InnerSize.Width-phys.Width)/2),
		Height: max(0, (f.InnerSize.Height-phys.Height)/2),
	}
}

// VisualOffset is the distance from a window's outer position to the top-left
// corner of its visual footprint: chrome inset plus inner padding.
func VisualOffset(f WindowFrame, v VisualFootprint) Size {
	inset := f.ChromeInset()
	pad := v.InnerPadding(f)
	return Size{
		Width:  inset.Width + pad.Width,
		Height: inset.Height + pad.Height,
	}
}

// FootprintRect returns the footprint's on-screen rectangle for a window frame.
func FootprintRect(f WindowFrame, v VisualFootprint) Rect {
	off := VisualOffset(f, v)
	return Rect{
		Position: Point{
			X: f.OuterPosition.X + off.Width,
			Y: f.OuterPosition.Y + off.Height,
		},
		Size: v.Physical(f.ScaleFactor),
	}
}
