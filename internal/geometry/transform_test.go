package geometry

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// canonicalMain is a 360x528 content area with 8px of chrome on every side.
func canonicalMain() WindowFrame {
	return WindowFrame{
		OuterPosition: Point{X: 100, Y: 100},
		OuterSize:     Size{Width: 376, Height: 544},
		InnerSize:     Size{Width: 360, Height: 528},
		ScaleFactor:   1,
	}
}

func canonicalBubble() (WindowFrame, VisualFootprint) {
	n := DefaultNominal()
	return n.BubbleFrameAt(Point{}, 1), n.Footprint()
}

func TestDockedPosition_CanonicalFixture(t *testing.T) {
	bubble, fp := canonicalBubble()

	got := DockedPosition(canonicalMain(), bubble, fp)

	// x: content right edge 100+8+360=468, minus 9px inner padding.
	// y: content center 100+8+264=372, minus half footprint 21, minus 9px padding.
	if got.X != 459 || got.Y != 342 {
		t.Fatalf("DockedPosition = (%v,%v), want (459,342)", got.X, got.Y)
	}

	foot := FootprintRect(bubble.withPosition(got), fp)
	if foot.Position.X != 468 {
		t.Fatalf("footprint left edge = %v, want 468", foot.Position.X)
	}
	if center := foot.Position.Y + foot.Size.Height/2; center != 372 {
		t.Fatalf("footprint center y = %v, want 372", center)
	}
}

func TestDockedPosition_AccountsForBubbleChrome(t *testing.T) {
	_, fp := canonicalBubble()
	bubble := WindowFrame{
		OuterSize:   Size{Width: 64, Height: 84}, // 2px sides, 12px top/bottom split evenly
		InnerSize:   Size{Width: 60, Height: 60},
		ScaleFactor: 1,
	}

	got := DockedPosition(canonicalMain(), bubble, fp)

	if got.X != 468-2-9 {
		t.Fatalf("x = %v, want %v", got.X, 468-2-9)
	}
	if got.Y != 372-21-12-9 {
		t.Fatalf("y = %v, want %v", got.Y, 372-21-12-9)
	}
}

func TestDockedPosition_FootprintLargerThanContentHasNoPadding(t *testing.T) {
	bubble := WindowFrame{
		OuterSize:   Size{Width: 30, Height: 30},
		InnerSize:   Size{Width: 30, Height: 30},
		ScaleFactor: 1,
	}
	fp := VisualFootprint{Size: Size{Width: 42, Height: 42}}

	got := DockedPosition(canonicalMain(), bubble, fp)
	if got.X != 468 {
		t.Fatalf("x = %v, want 468 (padding clamps to zero)", got.X)
	}
}

func TestDockedPosition_DegenerateInputDoesNotPanic(t *testing.T) {
	main := WindowFrame{
		OuterSize: Size{Width: -10, Height: 0},
		InnerSize: Size{Width: 20, Height: -5},
	}
	bubble := WindowFrame{}
	got := DockedPosition(main, bubble, VisualFootprint{})
	if math.IsNaN(got.X) || math.IsNaN(got.Y) {
		t.Fatalf("expected defined output, got %+v", got)
	}
}

func TestRestoredPosition_RoundTripReturnsToVisualAnchor(t *testing.T) {
	cases := []struct {
		name   string
		main   WindowFrame
		bubble WindowFrame
	}{
		{
			name: "canonical",
			main: canonicalMain(),
			bubble: WindowFrame{
				OuterSize:   Size{Width: 60, Height: 60},
				InnerSize:   Size{Width: 60, Height: 60},
				ScaleFactor: 1,
			},
		},
		{
			name: "decorated bubble, odd chrome",
			main: WindowFrame{
				OuterPosition: Point{X: -37, Y: 812},
				OuterSize:     Size{Width: 803, Height: 611},
				InnerSize:     Size{Width: 800, Height: 580},
				ScaleFactor:   1,
			},
			bubble: WindowFrame{
				OuterSize:   Size{Width: 62, Height: 91},
				InnerSize:   Size{Width: 60, Height: 60},
				ScaleFactor: 1,
			},
		},
		{
			name: "hidpi",
			main: WindowFrame{
				OuterPosition: Point{X: 1500, Y: 240},
				OuterSize:     Size{Width: 736, Height: 1088},
				InnerSize:     Size{Width: 720, Height: 1040},
				ScaleFactor:   2,
			},
			bubble: WindowFrame{
				OuterSize:   Size{Width: 120, Height: 120},
				InnerSize:   Size{Width: 120, Height: 120},
				ScaleFactor: 2,
			},
		},
		{
			name: "fractional scale",
			main: WindowFrame{
				OuterPosition: Point{X: 13, Y: 7},
				OuterSize:     Size{Width: 451, Height: 651},
				InnerSize:     Size{Width: 450, Height: 650},
				ScaleFactor:   1.25,
			},
			bubble: WindowFrame{
				OuterSize:   Size{Width: 75, Height: 75},
				InnerSize:   Size{Width: 75, Height: 75},
				ScaleFactor: 1.25,
			},
		},
	}

	fp := DefaultNominal().Footprint()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docked := DockedPosition(tc.main, tc.bubble, fp)
			restored := RestoredPosition(tc.bubble.withPosition(docked), fp, tc.main)

			back := tc.main.withPosition(restored).ContentRect()
			orig := tc.main.ContentRect()
			if !near(back.Right(), orig.Right(), 1) {
				t.Errorf("content right edge = %v, want %v", back.Right(), orig.Right())
			}
			gotCenter := back.Position.Y + back.Size.Height/2
			wantCenter := orig.Position.Y + orig.Size.Height/2
			if !near(gotCenter, wantCenter, 1) {
				t.Errorf("content center y = %v, want %v", gotCenter, wantCenter)
			}
			if !near(restored.X, tc.main.OuterPosition.X, tolerance) || !near(restored.Y, tc.main.OuterPosition.Y, tolerance) {
				t.Errorf("restored = %+v, want %+v", restored, tc.main.OuterPosition)
			}
		})
	}
}

func TestRestoredPosition_PlacesMainLeftOfFootprint(t *testing.T) {
	bubble, fp := canonicalBubble()
	bubble.OuterPosition = Point{X: 900, Y: 400}
	main := DefaultNominal().MainFrameAt(Point{}, 1)

	got := RestoredPosition(bubble, fp, main)

	// Footprint left = 909, center y = 400+9+21 = 430.
	if got.X != 909-360 {
		t.Fatalf("x = %v, want %v", got.X, 909-360)
	}
	if got.Y != 430-260 {
		t.Fatalf("y = %v, want %v", got.Y, 430-260)
	}
}

func TestDockedPosition_ScaleInvariantInLogicalUnits(t *testing.T) {
	fp := DefaultNominal().Footprint()

	main1 := canonicalMain()
	bubble1 := WindowFrame{
		OuterSize:   Size{Width: 60, Height: 60},
		InnerSize:   Size{Width: 60, Height: 60},
		ScaleFactor: 1,
	}
	main2 := WindowFrame{
		OuterPosition: Point{X: 200, Y: 200},
		OuterSize:     Size{Width: 752, Height: 1088},
		InnerSize:     Size{Width: 720, Height: 1056},
		ScaleFactor:   2,
	}
	bubble2 := WindowFrame{
		OuterSize:   Size{Width: 120, Height: 120},
		InnerSize:   Size{Width: 120, Height: 120},
		ScaleFactor: 2,
	}

	relative := func(main, bubble WindowFrame) (dx, dy float64) {
		docked := DockedPosition(main, bubble, fp)
		foot := FootprintRect(bubble.withPosition(docked), fp)
		content := main.ContentRect()
		s := main.ScaleFactor
		dx = (foot.Position.X - content.Right()) / s
		dy = (foot.Position.Y + foot.Size.Height/2 - (content.Position.Y + content.Size.Height/2)) / s
		return dx, dy
	}

	dx1, dy1 := relative(main1, bubble1)
	dx2, dy2 := relative(main2, bubble2)
	if !near(dx1, dx2, tolerance) || !near(dy1, dy2, tolerance) {
		t.Fatalf("logical alignment differs: scale1=(%v,%v) scale2=(%v,%v)", dx1, dy1, dx2, dy2)
	}

	p1 := DockedPosition(main1, bubble1, fp)
	p2 := DockedPosition(main2, bubble2, fp)
	if !near(p2.X, 2*p1.X, tolerance) || !near(p2.Y, 2*p1.Y, tolerance) {
		t.Fatalf("scale 2 position = %+v, want double of %+v", p2, p1)
	}
}

func (f WindowFrame) withPosition(p Point) WindowFrame {
	f.OuterPosition = p
	return f
}
