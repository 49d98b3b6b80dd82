package config

import (
	"reflect"
	"testing"

	"github.com/1broseidon/bubbledock/internal/geometry"
)

func TestRestartRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   []string
	}{
		{name: "unchanged", modify: func(*Config) {}},
		{name: "live keys only", modify: func(c *Config) {
			c.LogLevel = "debug"
			c.ToggleHotkey = "Mod4-b"
			c.ClampEpsilon = 1
			c.FallbackPosition = Position{X: 10, Y: 10}
		}},
		{name: "bubble appearance", modify: func(c *Config) {
			c.Bubble.Color = "#ff0000"
			c.Bubble.Sticky = false
		}, want: []string{"bubble.color", "bubble.sticky"}},
		{name: "window setup", modify: func(c *Config) {
			c.DragThreshold = 8
			c.Main.Title = "notes"
			c.Main.Frame.Width = 400
		}, want: []string{"drag_threshold", "main.frame", "main.title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			started := DefaultConfig()
			next := DefaultConfig()
			tt.modify(next)

			if got := RestartRequired(started, next); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("RestartRequired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLiveNominalKeepsStartedWindowSizes(t *testing.T) {
	started := DefaultConfig()
	next := DefaultConfig()
	next.Bubble.Footprint = Dimensions{Width: 50, Height: 50}
	next.Main.Frame = Dimensions{Width: 800, Height: 600}
	next.FallbackPosition = Position{X: 40, Y: 60}
	next.ClampEpsilon = 2

	n := LiveNominal(started, next)
	if n.BubbleFootprint != started.Nominal().BubbleFootprint || n.MainFrame != started.Nominal().MainFrame {
		t.Fatalf("window sizes changed on reload: %+v", n)
	}
	if n.FallbackPosition != (geometry.Point{X: 40, Y: 60}) || n.ClampEpsilon != 2 {
		t.Fatalf("live keys not applied: %+v", n)
	}
}
