package geometry

// Default nominal sizes, in logical pixels.
const (
	DefaultBubbleFootprint = 42
	DefaultBubbleFrame     = 60
	DefaultMainWidth       = 360
	DefaultMainHeight      = 520

	// DefaultClampEpsilon absorbs sub-pixel noise reported by the display server.
	DefaultClampEpsilon = 0.5
)

// Nominal holds the sizes assumed for each window role when the real
// geometry cannot be read, plus the last-resort placement.
type Nominal struct {
	BubbleFootprint  Size // logical
	BubbleFrame      Size // logical
	MainFrame        Size // logical
	FallbackPosition Point
	ClampEpsilon     float64
}

// DefaultNominal returns the built-in nominal sizes.
func DefaultNominal() Nominal {
	return Nominal{
		BubbleFootprint:  Size{Width: DefaultBubbleFootprint, Height: DefaultBubbleFootprint},
		BubbleFrame:      Size{Width: DefaultBubbleFrame, Height: DefaultBubbleFrame},
		MainFrame:        Size{Width: DefaultMainWidth, Height: DefaultMainHeight},
		FallbackPosition: Point{X: 100, Y: 100},
		ClampEpsilon:     DefaultClampEpsilon,
	}
}

// Footprint returns the bubble's visual footprint.
func (n Nominal) Footprint() VisualFootprint {
	return VisualFootprint{Size: n.BubbleFootprint}
}

// BubbleFrameAt builds an undecorated bubble frame at pos for the given scale.
func (n Nominal) BubbleFrameAt(pos Point, scale float64) WindowFrame {
	return undecorated(pos, n.BubbleFrame.Scale(scale), scale)
}

// MainFrameAt builds an undecorated main frame at pos for the given scale.
func (n Nominal) MainFrameAt(pos Point, scale float64) WindowFrame {
	return undecorated(pos, n.MainFrame.Scale(scale), scale)
}

func undecorated(pos Point, size Size, scale float64) WindowFrame {
	return WindowFrame{
		OuterPosition: pos,
		OuterSize:     size,
		InnerSize:     size,
		ScaleFactor:   scale,
	}
}
