package geometry

// ClampResult is the outcome of ClampToMonitor.
type ClampResult struct {
	Position Point
	Clamped  bool
}

// ClampToMonitor keeps the bubble's visual footprint (not its outer frame)
// inside monitor. Positions that overshoot the legal range by no more than
// epsilon are returned unchanged.
//
// When the footprint is larger than the monitor on an axis, the footprint's
// top or left edge is pinned to the monitor edge.
//
// Runs on every move notification during a drag, so it must not allocate or
// query anything.
func ClampToMonitor(bubble WindowFrame, footprint VisualFootprint, monitor MonitorBounds, epsilon float64) ClampResult {
	off := VisualOffset(bubble, footprint)
	phys := footprint.Physical(bubble.ScaleFactor)
	bounds := monitor.Rect()

	x, clampedX := clampAxis(
		bubble.OuterPosition.X,
		bounds.Position.X-off.Width,
		bounds.Right()-off.Width-phys.Width,
		epsilon,
	)
	y, clampedY := clampAxis(
		bubble.OuterPosition.Y,
		bounds.Position.Y-off.Height,
		bounds.Bottom()-off.Height-phys.Height,
		epsilon,
	)

	if !clampedX && !clampedY {
		return ClampResult{Position: bubble.OuterPosition}
	}
	return ClampResult{Position: Point{X: x, Y: y}, Clamped: true}
}

func clampAxis(v, lo, hi, epsilon float64) (float64, bool) {
	if hi < lo {
		hi = lo
	}
	switch {
	case v < lo-epsilon:
		return lo, true
	case v > hi+epsilon:
		return hi, true
	default:
		return v, false
	}
}
