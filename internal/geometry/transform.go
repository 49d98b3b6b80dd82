package geometry

// DockedPosition returns the outer position for the bubble window so that the
// left edge of its visual footprint touches the right edge of the main
// window's content area, vertically centered on that content area.
//
// Only the bubble frame's sizes and scale factor are used; its position is
// ignored. Alignment is between perceived shapes, not window rectangles.
func DockedPosition(main WindowFrame, bubble WindowFrame, footprint VisualFootprint) Point {
	content := main.ContentRect()
	rightEdge := content.Right()
	centerY := content.Position.Y + content.Size.Height/2

	off := VisualOffset(bubble, footprint)
	phys := footprint.Physical(bubble.ScaleFactor)

	return Point{
		X: rightEdge - off.Width,
		Y: centerY - phys.Height/2 - off.Height,
	}
}

// RestoredPosition is the inverse of DockedPosition: it returns the outer
// position for the main window so that its content area ends at the left edge
// of the bubble's visual footprint, vertically centered on the footprint.
//
// Only the main frame's sizes are used; its position is ignored.
func RestoredPosition(bubble WindowFrame, footprint VisualFootprint, main WindowFrame) Point {
	foot := FootprintRect(bubble, footprint)
	centerY := foot.Position.Y + foot.Size.Height/2

	inset := main.ChromeInset()
	return Point{
		X: foot.Position.X - main.InnerSize.Width - inset.Width,
		Y: centerY - main.InnerSize.Height/2 - inset.Height,
	}
}
