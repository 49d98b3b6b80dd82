package tui

import (
	"fmt"

	"github.com/1broseidon/bubbledock/internal/config"
	"github.com/1broseidon/bubbledock/internal/geometry"
)

// previewMonitor is the work area the preview clamps against.
var previewMonitor = geometry.MonitorBounds{
	Size: geometry.Size{Width: 1920, Height: 1080},
}

// summarizeDock describes where the bubble lands when an undecorated main
// window at the fallback position is docked at scale 1, and where the main
// window comes back to.
func summarizeDock(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	nominal := cfg.Nominal()
	main := nominal.MainFrameAt(nominal.FallbackPosition, 1)
	footprint := nominal.Footprint()
	bubble := nominal.BubbleFrameAt(geometry.Point{}, 1)

	bubble.OuterPosition = geometry.DockedPosition(main, bubble, footprint)
	res := geometry.ClampToMonitor(bubble, footprint, previewMonitor, nominal.ClampEpsilon)
	bubble.OuterPosition = res.Position
	restored := geometry.RestoredPosition(bubble, footprint, main)

	clamped := ""
	if res.Clamped {
		clamped = " (clamped)"
	}
	return fmt.Sprintf("main %s %s×%s  →  bubble %s%s  →  restore %s",
		formatPoint(main.OuterPosition),
		formatFloat(main.OuterSize.Width), formatFloat(main.OuterSize.Height),
		formatPoint(bubble.OuterPosition), clamped,
		formatPoint(restored))
}

func formatPoint(p geometry.Point) string {
	return "(" + formatFloat(p.X) + ", " + formatFloat(p.Y) + ")"
}
