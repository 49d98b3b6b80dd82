package config

import "github.com/1broseidon/bubbledock/internal/geometry"

// RestartRequired lists the keys whose value differs between the config the
// daemon started with and next, but which a running daemon cannot apply:
// they shape the windows it created or the connections it opened.
func RestartRequired(started, next *Config) []string {
	checks := []struct {
		key     string
		changed bool
	}{
		{"display", started.Display != next.Display},
		{"xauthority", started.XAuthority != next.XAuthority},
		{"menu_backend", started.MenuBackend != next.MenuBackend},
		{"drag_threshold", started.DragThreshold != next.DragThreshold},
		{"reconcile_interval", started.ReconcileInterval != next.ReconcileInterval},
		{"bubble.footprint", started.Bubble.Footprint != next.Bubble.Footprint},
		{"bubble.frame", started.Bubble.Frame != next.Bubble.Frame},
		{"bubble.color", started.Bubble.Color != next.Bubble.Color},
		{"bubble.sticky", started.Bubble.Sticky != next.Bubble.Sticky},
		{"main.frame", started.Main.Frame != next.Main.Frame},
		{"main.title", started.Main.Title != next.Main.Title},
	}

	var keys []string
	for _, c := range checks {
		if c.changed {
			keys = append(keys, c.key)
		}
	}
	return keys
}

// LiveNominal is next's geometry with the window sizes the daemon started
// with, so clamping keeps matching the windows on screen.
func LiveNominal(started, next *Config) geometry.Nominal {
	n := next.Nominal()
	s := started.Nominal()
	n.BubbleFrame = s.BubbleFrame
	n.BubbleFootprint = s.BubbleFootprint
	n.MainFrame = s.MainFrame
	return n
}
